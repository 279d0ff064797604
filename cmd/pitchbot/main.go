package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"gopkg.in/ini.v1"

	"github.com/pitchside/pitchbot"
	"github.com/pitchside/pitchbot/slack"
	"github.com/pitchside/pitchbot/slack/controller"
	"github.com/pitchside/pitchbot/slack/rtm"
	"github.com/pitchside/pitchbot/util"

	_ "github.com/pitchside/pitchbot/modules/_all"
)

func main() {
	teamName := flag.String("team", "Test", "which team to use")
	configFile := flag.String("conf", "", "override config file")
	dumpMessages := flag.Bool("msgdump", false, "dump message events")
	flag.Parse()

	var cfg *ini.File
	var err error
	if *configFile != "" {
		cfg, err = ini.Load(*configFile)
	} else {
		cfg, err = ini.LooseLoad("testdata/config.ini", "config.ini", "/etc/pitchbot/config.ini")
	}
	if err != nil {
		util.LogError(errors.Wrap(err, "loading config"))
		os.Exit(1)
	}

	teamConfig := pitchbot.LoadTeamConfig(cfg.Section(*teamName))
	if teamConfig.UserToken == "" {
		util.LogBadf("No UserToken in section [%s] and SLACK_TOKEN is not set", *teamName)
		os.Exit(1)
	}
	team, err := controller.NewTeam(teamConfig)
	if err != nil {
		util.LogError(errors.Wrap(err, "NewTeam"))
		os.Exit(1)
	}

	var l net.Listener
	if teamConfig.HTTPListen != "" {
		l, err = net.Listen("tcp", teamConfig.HTTPListen)
		if err != nil {
			util.LogError(errors.Wrap(err, "listen tcp"))
			os.Exit(1)
		}
	}
	client, err := rtm.Dial(team)
	if err != nil {
		util.LogError(errors.Wrap(err, "rtm.Dial"))
		os.Exit(1)
	}
	if *dumpMessages {
		client.RegisterRawHandler("main.go", func(msg slack.RTMRawMessage) {
			switch msg.Type() {
			case "user_typing", "reconnect_url", "presence_change":
				return
			}
			util.LogDebug("rtm message:", msg)
		}, rtm.MsgTypeAll, nil)
	}

	team.ConnectRTM(client)
	if !team.EnableModules() {
		util.LogWarn("No modules could be enabled. Quitting.")
		team.Shutdown()
		os.Exit(1)
	}
	if l != nil {
		team.ConnectHTTP(l)
	}

	client.Start()

	fmt.Println("started")
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signalCh
	util.LogWarn("Got", sig, "- shutting down")
	team.Shutdown()
}
