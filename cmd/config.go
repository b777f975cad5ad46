package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"document-tldr/internal/config"
	"document-tldr/internal/helper"
)

var showJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := store.Load()
		if err != nil {
			return err
		}
		masked := *cfg
		masked.Key = helper.Mask(cfg.Key)
		masked.LLM.Key = helper.Mask(cfg.LLM.Key)

		if showJSON {
			return helper.PrettyPrint(os.Stdout, masked)
		}
		for _, field := range config.Fields {
			v, _ := masked.Get(field)
			fmt.Printf("%-13s %s\n", field+":", v)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		fmt.Println(store.Path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Change one setting",
	Long:  fmt.Sprintf("Change one setting. Fields: %v", config.Fields),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return setField(store, args[0], args[1])
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the API key, endpoint and prompt interactively",
	Long:  "Edit the API key, endpoint and prompt interactively. Each field is saved as soon as it is confirmed.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfig(store.Path)
		if err != nil {
			return err
		}

		fields := []struct {
			name  string
			label string
			mask  rune
		}{
			{"key", "API Key", '*'},
			{"endpoint", "API Endpoint", 0},
			{"prompt", "Prompt", 0},
		}
		for _, f := range fields {
			current, _ := cfg.Get(f.name)
			value, err := askField(f.name, f.label, current, f.mask)
			if err != nil {
				return err
			}
			if value == current {
				continue
			}
			if err := setField(store, f.name, value); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&showJSON, "json", false, "print as JSON")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEditCmd)
}

func askField(name, label, current string, mask rune) (string, error) {
	if name == "prompt" {
		if value, ok, err := editInEditor(current); ok || err != nil {
			return value, err
		}
	}
	prompt := promptui.Prompt{
		Label:     label,
		Default:   current,
		AllowEdit: true,
		Mask:      mask,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return value, nil
}

// editInEditor lets the user edit text in $VISUAL or $EDITOR. It reports
// false when neither is set. The newline editors append on save is dropped.
func editInEditor(text string) (string, bool, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	args := strings.Fields(editor)
	if len(args) == 0 {
		return "", false, nil
	}

	tmp, err := os.CreateTemp("", "tldr-prompt-*.txt")
	if err != nil {
		return "", true, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return "", true, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", true, err
	}

	cmd := exec.Command(args[0], append(args[1:], tmp.Name())...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		return "", true, fmt.Errorf("run editor %s: %w", args[0], err)
	}

	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		return "", true, err
	}
	edited := strings.TrimSuffix(string(data), "\n")
	edited = strings.TrimSuffix(edited, "\r")
	return edited, true, nil
}

// setField saves a single change. The stored file is reread so environment
// overrides are never written back.
func setField(store *config.FileStore, field, value string) error {
	cfg, err := config.LoadConfig(store.Path)
	if err != nil {
		return err
	}
	if err := cfg.Set(field, value); err != nil {
		return err
	}
	return store.Save(cfg)
}
