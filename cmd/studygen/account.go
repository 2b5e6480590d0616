package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/phrazzld/studygen/internal/api/shared"
	"github.com/phrazzld/studygen/internal/domain"
	"github.com/spf13/cobra"
)

// credentials holds the email and password flags of register and login.
type credentials struct {
	email    string
	password string
	save     bool
}

func (cr *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cr.email, "email", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&cr.password, "password", "", "account password (prompted when empty)")
	cmd.Flags().BoolVar(&cr.save, "save", false, "store the access token in the --config file")
}

// complete prompts for whatever was not passed as a flag.
func (cr *credentials) complete() error {
	if strings.TrimSpace(cr.email) == "" {
		prompt := promptui.Prompt{
			Label: "Email",
			Validate: func(s string) error {
				if !strings.Contains(s, "@") {
					return errors.New("enter an email address")
				}
				return nil
			},
		}
		email, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("email prompt: %w", err)
		}
		cr.email = email
	}
	if cr.password == "" {
		prompt := promptui.Prompt{
			Label: "Password",
			Mask:  '*',
			Validate: func(s string) error {
				if s == "" {
					return errors.New("enter a password")
				}
				return nil
			},
		}
		password, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("password prompt: %w", err)
		}
		cr.password = password
	}
	cr.email = domain.NormalizeEmail(cr.email)
	return nil
}

func newRegisterCmd(c *cli) *cobra.Command {
	var cr credentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.checkSave(cr.save); err != nil {
				return err
			}
			if err := cr.complete(); err != nil {
				return err
			}
			resp, err := c.client().Register(cmd.Context(), cr.email, cr.password)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registration successful!")
			return c.finishLogin(cmd, resp, cr.save)
		},
	}
	cr.bind(cmd)
	return cmd
}

func newLoginCmd(c *cli) *cobra.Command {
	var cr credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.checkSave(cr.save); err != nil {
				return err
			}
			if err := cr.complete(); err != nil {
				return err
			}
			resp, err := c.client().Login(cmd.Context(), cr.email, cr.password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged in successfully!")
			return c.finishLogin(cmd, resp, cr.save)
		},
	}
	cr.bind(cmd)
	return cmd
}

// checkSave rejects --save without a file to write before any credentials
// are sent.
func (c *cli) checkSave(save bool) error {
	if save && c.cfgFile == "" {
		return errors.New("--save needs --config to name the file to write")
	}
	return nil
}

// finishLogin saves or prints the new access token.
func (c *cli) finishLogin(cmd *cobra.Command, resp *shared.AuthResponse, save bool) error {
	if !save {
		fmt.Fprintf(cmd.OutOrStdout(), "export STUDYGEN_TOKEN=%s\n", resp.AccessToken)
		return nil
	}
	c.v.Set(keyToken, resp.AccessToken)
	if err := c.v.WriteConfigAs(c.cfgFile); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", c.cfgFile)
	return nil
}
