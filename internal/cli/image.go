package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newImageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Store, fetch and delete member Aadhaar images",
	}
	cmd.AddCommand(
		newImagePutCmd(a),
		newImageGetCmd(a),
		newImageDeleteCmd(a),
	)
	return cmd
}

func newImagePutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put <member-id> <file>",
		Short: "Store or replace the Aadhaar image of a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("member", args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				if _, err := s.repo.GetMember(id); err != nil {
					return err
				}
				if err := s.repo.StoreAadhaarImage(id, data); err != nil {
					return err
				}
				out := map[string]any{"memberId": id, "bytes": len(data)}
				return a.emit(cmd, out, func(w io.Writer) {
					fmt.Fprintf(w, "image stored for member %d (%d bytes)\n", id, len(data))
				})
			})
		},
	}
}

func newImageGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <member-id> <file|->",
		Short: "Write the Aadhaar image of a member to a file, or to stdout with -",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("member", args[0])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				img, err := s.repo.GetAadhaarImage(id)
				if err != nil {
					return err
				}
				if args[1] == "-" {
					_, err := cmd.OutOrStdout().Write(img.ImageData)
					return err
				}
				if err := os.WriteFile(args[1], img.ImageData, 0o600); err != nil {
					return err
				}
				out := map[string]any{"memberId": id, "file": args[1], "uploadedAt": img.UploadedAt}
				return a.emit(cmd, out, func(w io.Writer) {
					fmt.Fprintf(w, "image of member %d written to %s\n", id, args[1])
				})
			})
		},
	}
}

func newImageDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <member-id>",
		Short: "Delete the Aadhaar image of a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("member", args[0])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				if err := s.repo.DeleteAadhaarImage(id); err != nil {
					return err
				}
				return a.emit(cmd, map[string]int64{"memberId": id}, func(w io.Writer) {
					fmt.Fprintf(w, "image of member %d deleted\n", id)
				})
			})
		},
	}
}
