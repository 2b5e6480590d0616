package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/phrazzld/studygen/internal/client"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "STUDYGEN"

// Setting keys shared by flags, the environment and the config file.
const (
	keyServer   = "server"
	keyToken    = "token"
	keyLogLevel = "log_level"
)

// cli carries settings resolved by the root command to its subcommands.
type cli struct {
	v       *viper.Viper
	cfgFile string
	log     *slog.Logger
}

// alertedError marks a failure the user has already been shown as an alert.
type alertedError struct {
	err error
}

func (e *alertedError) Error() string { return e.err.Error() }

func (e *alertedError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "studygen",
		Short: "Turn study text into flashcards or quizzes",
		Long: `studygen sends pasted study text to a studygen server and prints the
flashcards or multiple-choice quiz it generates. Free accounts get a limited
number of prompts; run "studygen subscribe" to get a payment link.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (yaml) holding server and token")
	flags.String(keyServer, client.DefaultBaseURL, "studygen server URL")
	flags.String(keyToken, "", "access token (or STUDYGEN_TOKEN)")
	flags.String("log-level", "error", "log level for diagnostics on stderr")

	c.v.SetEnvPrefix(envPrefix)
	c.v.AutomaticEnv()
	_ = c.v.BindPFlag(keyServer, flags.Lookup(keyServer))
	_ = c.v.BindPFlag(keyToken, flags.Lookup(keyToken))
	_ = c.v.BindPFlag(keyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		newRegisterCmd(c),
		newLoginCmd(c),
		newGenerateCmd(c),
		newSubscribeCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		c.v.SetConfigType("yaml")
		if err := c.v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading config %s: %w", c.cfgFile, err)
		}
	}
	c.log = logger.New(cmd.ErrOrStderr(), c.v.GetString(keyLogLevel))
	return nil
}

// client builds an API client from the resolved settings.
func (c *cli) client() *client.Client {
	return client.New(c.v.GetString(keyServer),
		client.WithToken(c.v.GetString(keyToken)),
		client.WithLogger(c.log))
}

func (c *cli) requireToken() error {
	if c.v.GetString(keyToken) == "" {
		return errors.New(`not logged in: pass --token, set STUDYGEN_TOKEN or run "studygen login --save"`)
	}
	return nil
}
