package controller

import (
	"github.com/pkg/errors"

	"github.com/pitchside/pitchbot"
	"github.com/pitchside/pitchbot/util"
)

// ConfTurnOffModule is the value of a "modules" config key that keeps the
// module with that name from being enabled.
const ConfTurnOffModule = "off"

type ModuleState int

const (
	_ ModuleState = iota
	ModuleStateConstructed
	ModuleStateLoaded
	ModuleStateEnabled
	ModuleStateDisabled
	ModuleStateErrorLoading
	ModuleStateErrorEnabling
)

type moduleStatus struct {
	Identifier    pitchbot.ModuleID
	Instance      pitchbot.Module
	State         ModuleState
	DegradeReason error
}

func (ms *moduleStatus) Degraded() bool {
	return ms.DegradeReason != nil
}

// EnableModules constructs, loads and enables every registered module.
// It returns false if no module could be enabled.
func (t *Team) EnableModules() bool {
	t.modulesLock.Lock()
	defer t.modulesLock.Unlock()

	t.constructModules()
	t.loadModules()
	for _, ms := range t.modules {
		t.moduleConfig(ms.Identifier).LockDefaults()
	}
	t.enableModules()

	for _, ms := range t.modules {
		if ms.State == ModuleStateEnabled {
			return true
		}
	}
	return false
}

// GetModule returns the instance of an enabled module, or nil.
func (t *Team) GetModule(ident pitchbot.ModuleID) pitchbot.Module {
	t.modulesLock.Lock()
	defer t.modulesLock.Unlock()

	for _, ms := range t.modules {
		if ms.Identifier == ident && ms.State == ModuleStateEnabled {
			return ms.Instance
		}
	}
	return nil
}

func (t *Team) constructModules() {
	var modList []*moduleStatus

	for _, constructor := range pitchbot.AllModules() {
		var mod pitchbot.Module
		err := util.PCall(func() error {
			mod = constructor(t)
			return nil
		})
		if err != nil {
			util.LogError(errors.Wrap(err, "could not construct module"))
			continue
		}
		modList = append(modList, &moduleStatus{
			Instance:   mod,
			Identifier: mod.Identifier(),
			State:      ModuleStateConstructed,
		})
	}
	t.modules = modList
}

func (t *Team) loadModules() {
	for _, ms := range t.modules {
		err := protectedCallT(t, ms.Instance.Load)
		if err != nil {
			ms.State = ModuleStateErrorLoading
			ms.DegradeReason = err
			util.LogError(errors.Wrapf(err, "loading module %s", ms.Identifier))
			continue
		}
		ms.State = ModuleStateLoaded
	}
}

func (t *Team) enableModules() {
	conf := t.moduleConfig("modules")
	for _, ms := range t.modules {
		if ms.Degraded() {
			continue
		}
		desired, _, err := conf.GetIsDefault(string(ms.Identifier))
		if err != nil {
			if _, ok := errors.Cause(err).(ErrConfNoDefault); !ok {
				ms.DegradeReason = errors.Wrap(err, "could not determine desired state")
				ms.State = ModuleStateErrorEnabling
				util.LogError(ms.DegradeReason)
				continue
			}
		}
		if desired == "false" || desired == ConfTurnOffModule {
			ms.State = ModuleStateDisabled
			util.LogWarnf("Module %s turned off by configuration", ms.Identifier)
			continue
		}

		err = protectedCallT(t, ms.Instance.Enable)
		if err != nil {
			ms.State = ModuleStateErrorEnabling
			ms.DegradeReason = err
			util.LogError(errors.Wrapf(err, "enabling module %s", ms.Identifier))
			protectedCallT(t, ms.Instance.Disable)
			continue
		}
		ms.State = ModuleStateEnabled
		util.LogGoodf("Enabled module %s", ms.Identifier)
	}
}

func (t *Team) disableModules() {
	t.modulesLock.Lock()
	defer t.modulesLock.Unlock()

	for i := len(t.modules) - 1; i >= 0; i-- {
		ms := t.modules[i]
		if ms.State != ModuleStateEnabled {
			continue
		}
		err := protectedCallT(t, ms.Instance.Disable)
		if err != nil {
			util.LogError(errors.Wrapf(err, "disabling module %s", ms.Identifier))
		}
		ms.State = ModuleStateDisabled
	}
}

func protectedCallT(t pitchbot.Team, f func(t pitchbot.Team)) error {
	return util.PCall(func() error {
		f(t)
		return nil
	})
}
