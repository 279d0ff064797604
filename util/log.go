package util

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mgutz/ansi"
)

var (
	funcErr   = ansi.ColorFunc("red+h")
	funcWarn  = ansi.ColorFunc("yellow")
	funcGood  = ansi.ColorFunc("green")
	funcDebug = ansi.ColorFunc("black+h")
)

var (
	logLock sync.Mutex
	logOut  io.Writer = os.Stderr
)

// SetLogOutput redirects the Log* functions. Tests use it to keep stderr quiet.
func SetLogOutput(w io.Writer) {
	logLock.Lock()
	defer logLock.Unlock()
	logOut = w
}

func write(s string) {
	logLock.Lock()
	defer logLock.Unlock()
	fmt.Fprint(logOut, s)
}

func LogIfError(err error) error {
	if err != nil {
		LogError(err)
	}
	return err
}

// LogError prints err with %+v, so errors from pkg/errors come with a stack.
func LogError(err error) {
	write(funcErr(fmt.Sprintf("[  ERR] %+v", err)) + "\n")
}

func LogBad(msg ...interface{}) {
	msg = append([]interface{}{"[  ERR]"}, msg...)
	write(funcErr(fmt.Sprintln(msg...)))
}

func LogBadf(f string, v ...interface{}) {
	write(funcErr(fmt.Sprintf("[  ERR] "+f, v...)) + "\n")
}

func LogWarn(msg ...interface{}) {
	msg = append([]interface{}{"[ WARN]"}, msg...)
	write(funcWarn(fmt.Sprintln(msg...)))
}

func LogWarnf(f string, v ...interface{}) {
	write(funcWarn(fmt.Sprintf("[ WARN] "+f, v...)) + "\n")
}

func LogDebug(msg ...interface{}) {
	msg = append([]interface{}{"[DEBUG]"}, msg...)
	write(funcDebug(fmt.Sprintln(msg...)))
}

func LogGood(msg ...interface{}) {
	msg = append([]interface{}{"[ INFO]"}, msg...)
	write(funcGood(fmt.Sprintln(msg...)))
}

func LogGoodf(f string, v ...interface{}) {
	write(funcGood(fmt.Sprintf("[ INFO] "+f, v...)) + "\n")
}
