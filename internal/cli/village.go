package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/census/pkg/survey"
	"github.com/mesh-intelligence/census/pkg/types"
)

func newVillageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "village",
		Short: "Add, list, show, update and delete villages",
	}
	cmd.AddCommand(
		newVillageAddCmd(a),
		newVillageListCmd(a),
		newVillageGetCmd(a),
		newVillageUpdateCmd(a),
		newVillageDeleteCmd(a),
	)
	return cmd
}

func newVillageAddCmd(a *app) *cobra.Command {
	var in survey.VillageInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a village",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				id, err := s.repo.AddVillage(in)
				if err != nil {
					return err
				}
				return a.emit(cmd, map[string]int64{"id": id}, func(w io.Writer) {
					fmt.Fprintf(w, "village %d added\n", id)
				})
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "village name (required)")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "notes")
	return cmd
}

func newVillageListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List villages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				villages, err := s.repo.ListVillages()
				if err != nil {
					return err
				}
				return a.emit(cmd, villages, func(w io.Writer) {
					fmt.Fprintln(w, "ID\tNAME\tNOTES")
					for _, v := range villages {
						fmt.Fprintf(w, "%d\t%s\t%s\n", v.ID, v.Name, v.Notes)
					}
				})
			})
		},
	}
}

func newVillageGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a village and its houses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("village", args[0])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				v, err := s.repo.GetVillage(id)
				if err != nil {
					return err
				}
				houses, err := s.repo.HousesByVillage(id)
				if err != nil {
					return err
				}
				out := struct {
					*types.Village
					Houses []*types.House `json:"houses"`
				}{v, houses}
				return a.emit(cmd, out, func(w io.Writer) {
					fmt.Fprintf(w, "ID:\t%d\nName:\t%s\nNotes:\t%s\nHouses:\t%d\n", v.ID, v.Name, v.Notes, len(houses))
				})
			})
		},
	}
}

func newVillageUpdateCmd(a *app) *cobra.Command {
	var name, notes string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the name or notes of a village",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("village", args[0])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				current, err := s.repo.GetVillage(id)
				if err != nil {
					return err
				}
				in := survey.VillageInput{Name: current.Name, Notes: current.Notes}
				if cmd.Flags().Changed("name") {
					in.Name = name
				}
				if cmd.Flags().Changed("notes") {
					in.Notes = notes
				}
				v, err := s.repo.UpdateVillage(id, in)
				if err != nil {
					return err
				}
				return a.emit(cmd, v, func(w io.Writer) {
					fmt.Fprintf(w, "village %d updated\n", v.ID)
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	return cmd
}

func newVillageDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a village with all of its houses and members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("village", args[0])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				res, err := s.repo.DeleteVillage(id)
				if err != nil {
					return err
				}
				return a.emit(cmd, res, func(w io.Writer) { printCascade(w, "village", id, res) })
			})
		},
	}
}
