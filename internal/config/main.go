package config

import "fmt"

type Config struct {
	RunningEnvironment RunningEnvironment
	DebugMode          bool
	API                APIConfig
	Storage            StorageConfig
	Server             ServerConfig
	Refresh            RefreshConfig
	Monitoring         MonitoringConfig
}

type RunningEnvironment string

const Development RunningEnvironment = "development"
const Production RunningEnvironment = "production"

func (c *Config) Validate() error {
	if c.RunningEnvironment != Development && c.RunningEnvironment != Production {
		return fmt.Errorf(
			"unknown running environment %q (must be one of %s, %s)",
			c.RunningEnvironment,
			Development,
			Production,
		)
	}
	err := c.API.Validate()
	if err != nil {
		return err
	}
	err = c.Storage.Validate(c.RunningEnvironment)
	if err != nil {
		return err
	}
	err = c.Server.Validate()
	if err != nil {
		return err
	}
	return c.Refresh.Validate()
}
