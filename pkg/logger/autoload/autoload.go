// Package autoload initializes the global logger from LOG_* environment
// variables as a blank-import side effect.
package autoload

import (
	configx "github.com/jmakkonen/salespilot/pkg/config"
	logx "github.com/jmakkonen/salespilot/pkg/logger"
)

func init() {
	cfg, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*cfg)
}
