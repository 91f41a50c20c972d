package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Listen   string   `koanf:"listen"`
	Display  Display  `koanf:"display"`
	Calendar Calendar `koanf:"calendar"`
	Events   Events   `koanf:"events"`
	Layout   Layout   `koanf:"layout"`
}

type Display struct {
	// OffsetMinutes is the fixed display offset east of UTC.
	OffsetMinutes int `koanf:"offsetminutes"`
	// MobileBreakpoint is reported to clients, which dispatch
	// ui/setMobileView when their viewport is narrower.
	MobileBreakpoint int `koanf:"mobilebreakpoint"`
	// Mobile is the initial mobile mode.
	Mobile bool `koanf:"mobile"`
}

type Calendar struct {
	DefaultView    string `koanf:"defaultview"`
	FirstDayOfWeek int    `koanf:"firstdayofweek"`
	ShowWeekends   bool   `koanf:"showweekends"`
}

type Events struct {
	SampleData     bool `koanf:"sampledata"`
	MaxRecurrences int  `koanf:"maxrecurrences"`
}

type Layout struct {
	Cache bool `koanf:"cache"`
}

func defaults() Application {
	return Application{
		Listen: ":8181",
		Display: Display{
			MobileBreakpoint: 768,
		},
		Calendar: Calendar{
			DefaultView:  "week",
			ShowWeekends: true,
		},
		Events: Events{
			SampleData:     true,
			MaxRecurrences: 100,
		},
		Layout: Layout{
			Cache: true,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "CALGRID_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CALGRID_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if app.Calendar.FirstDayOfWeek < 0 || app.Calendar.FirstDayOfWeek > 6 {
		log.Warnf("calendar.firstdayofweek %d out of range, using Sunday", app.Calendar.FirstDayOfWeek)
		app.Calendar.FirstDayOfWeek = 0
	}

	return app, nil
}
