package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/census/pkg/backup"
	"github.com/mesh-intelligence/census/pkg/types"
)

// passphraseFlags holds the passphrase options shared by export and import.
type passphraseFlags struct {
	passphrase string
	prompt     bool
}

func (p *passphraseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.passphrase, "passphrase", "", "encryption passphrase (default: $CENSUS_BACKUP_PASSPHRASE)")
	cmd.Flags().BoolVar(&p.prompt, "prompt", false, "read the passphrase from the terminal")
}

// resolve returns the passphrase from the flag, the terminal or the
// environment, in that order. An empty result means no encryption.
func (p *passphraseFlags) resolve(a *app, cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("passphrase") {
		return p.passphrase, nil
	}
	if p.prompt {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", types.Validationf("--prompt needs an interactive terminal")
		}
		fmt.Fprint(cmd.ErrOrStderr(), "Passphrase: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return string(b), nil
	}
	return a.cfg.GetString(cfgKeyBackupPassphrase), nil
}

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export the dataset to a file or restore it from one",
	}
	cmd.AddCommand(
		newBackupExportCmd(a),
		newBackupImportCmd(a),
	)
	return cmd
}

func newBackupExportCmd(a *app) *cobra.Command {
	var pf passphraseFlags
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write villages, houses, members and settings to a JSON file",
		Long: "Write villages, houses, members and settings to a JSON file. Aadhaar images\n" +
			"are not exported. With a passphrase the file is encrypted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			passphrase, err := pf.resolve(a, cmd)
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				snap, err := s.backup.Export()
				if err != nil {
					return err
				}
				if err := backup.WriteFile(args[0], snap, passphrase); err != nil {
					return err
				}
				out := map[string]any{
					"file":      args[0],
					"villages":  len(snap.Villages),
					"houses":    len(snap.Houses),
					"members":   len(snap.Members),
					"encrypted": passphrase != "",
				}
				return a.emit(cmd, out, func(w io.Writer) {
					fmt.Fprintf(w, "exported %d villages, %d houses, %d members to %s\n",
						len(snap.Villages), len(snap.Houses), len(snap.Members), args[0])
				})
			})
		},
	}
	pf.register(cmd)
	return cmd
}

func newBackupImportCmd(a *app) *cobra.Command {
	var (
		pf  passphraseFlags
		yes bool
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the whole dataset with the contents of a backup file",
		Long: "Replace the whole dataset with the contents of a backup file. Records get new\n" +
			"ids and houses get new family ids. Aadhaar images are removed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return types.Validationf("import replaces all data; pass --yes to confirm")
			}
			passphrase, err := pf.resolve(a, cmd)
			if err != nil {
				return err
			}
			snap, err := backup.ReadFile(args[0], passphrase)
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				res, err := s.backup.Import(snap)
				if err != nil {
					return err
				}
				return a.emit(cmd, res, func(w io.Writer) {
					fmt.Fprintf(w, "imported %d villages, %d houses, %d members, %d settings\n",
						res.Villages, res.Houses, res.Members, res.Settings)
				})
			})
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm replacing all data")
	return cmd
}

func newWipeCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every village, house, member, image and setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return types.Validationf("wipe deletes all data; pass --yes to confirm")
			}
			return a.run(func(s *session) error {
				if err := s.backup.WipeAll(); err != nil {
					return err
				}
				return a.emit(cmd, map[string]bool{"wiped": true}, func(w io.Writer) {
					fmt.Fprintln(w, "all data deleted")
				})
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all data")
	return cmd
}
