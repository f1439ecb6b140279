package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/census/pkg/survey"
	"github.com/mesh-intelligence/census/pkg/types"
)

func newHouseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "house",
		Short: "Add, list, show, update and delete houses",
	}
	cmd.AddCommand(
		newHouseAddCmd(a),
		newHouseListCmd(a),
		newHouseGetCmd(a),
		newHouseUpdateCmd(a),
		newHouseDeleteCmd(a),
	)
	return cmd
}

// houseFlags registers the mutable house fields on fs.
func houseFlags(fs *pflag.FlagSet, u *survey.HouseUpdate) {
	fs.StringVar(&u.HeadName, "head", "", "name of the head of the family")
	fs.StringVar(&u.HeadMobile, "mobile", "", "mobile number of the head")
	fs.StringVar(&u.CasteCategory, "caste", "", "caste category (SC, ST, OBC, General, Other)")
	fs.StringVar(&u.HouseType, "type", "", "house type, e.g. Pucca or Kutcha")
	fs.BoolVar(&u.Toilet, "toilet", false, "house has a toilet")
	fs.StringVar(&u.DrinkingWater, "water", "", "drinking water source")
	fs.BoolVar(&u.Electricity, "electricity", false, "house has electricity")
	fs.StringVar(&u.Notes, "notes", "", "notes")
}

func newHouseAddCmd(a *app) *cobra.Command {
	var (
		villageID int64
		number    string
		fields    survey.HouseUpdate
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a house to a village",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				id, err := s.repo.AddHouse(survey.HouseInput{
					VillageID:     villageID,
					HouseNumber:   number,
					HeadName:      fields.HeadName,
					HeadMobile:    fields.HeadMobile,
					CasteCategory: fields.CasteCategory,
					HouseType:     fields.HouseType,
					Toilet:        fields.Toilet,
					DrinkingWater: fields.DrinkingWater,
					Electricity:   fields.Electricity,
					Notes:         fields.Notes,
				})
				if err != nil {
					return err
				}
				h, err := s.repo.GetHouse(id)
				if err != nil {
					return err
				}
				return a.emit(cmd, h, func(w io.Writer) {
					fmt.Fprintf(w, "house %d added (family %s)\n", h.ID, h.FamilyID)
				})
			})
		},
	}
	cmd.Flags().Int64Var(&villageID, "village", 0, "village id (required)")
	cmd.Flags().StringVar(&number, "number", "", "house number, unique within the village (required)")
	houseFlags(cmd.Flags(), &fields)
	return cmd
}

func newHouseListCmd(a *app) *cobra.Command {
	var villageID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List houses, optionally of one village",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				var (
					houses []*types.House
					err    error
				)
				if villageID != 0 {
					houses, err = s.repo.HousesByVillage(villageID)
				} else {
					houses, err = s.repo.ListHouses()
				}
				if err != nil {
					return err
				}
				return a.emit(cmd, houses, func(w io.Writer) { printHouses(w, houses) })
			})
		},
	}
	cmd.Flags().Int64Var(&villageID, "village", 0, "only houses of this village")
	return cmd
}

func newHouseGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a house and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("house", args[0])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				h, err := s.repo.GetHouse(id)
				if err != nil {
					return err
				}
				members, err := s.repo.MembersByHouse(id)
				if err != nil {
					return err
				}
				out := struct {
					*types.House
					Members []*types.Member `json:"members"`
				}{h, members}
				return a.emit(cmd, out, func(w io.Writer) {
					printHouse(w, h)
					fmt.Fprintln(w)
					printMembers(w, members)
				})
			})
		},
	}
}

func newHouseUpdateCmd(a *app) *cobra.Command {
	var fields survey.HouseUpdate
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the details of a house",
		Long:  "Change the details of a house. Only the flags given are changed; the village and house number are fixed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("house", args[0])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				current, err := s.repo.GetHouse(id)
				if err != nil {
					return err
				}
				in := mergeHouse(cmd.Flags(), current, fields)
				h, err := s.repo.UpdateHouse(id, in)
				if err != nil {
					return err
				}
				return a.emit(cmd, h, func(w io.Writer) {
					fmt.Fprintf(w, "house %d updated\n", h.ID)
				})
			})
		},
	}
	houseFlags(cmd.Flags(), &fields)
	return cmd
}

// mergeHouse starts from the stored house and applies the flags that were
// set on the command line.
func mergeHouse(fs *pflag.FlagSet, h *types.House, f survey.HouseUpdate) survey.HouseUpdate {
	u := survey.HouseUpdate{
		HeadName:      h.HeadName,
		HeadMobile:    h.HeadMobile,
		CasteCategory: h.CasteCategory,
		HouseType:     h.HouseType,
		Toilet:        h.Toilet,
		DrinkingWater: h.DrinkingWater,
		Electricity:   h.Electricity,
		Notes:         h.Notes,
	}
	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "head":
			u.HeadName = f.HeadName
		case "mobile":
			u.HeadMobile = f.HeadMobile
		case "caste":
			u.CasteCategory = f.CasteCategory
		case "type":
			u.HouseType = f.HouseType
		case "toilet":
			u.Toilet = f.Toilet
		case "water":
			u.DrinkingWater = f.DrinkingWater
		case "electricity":
			u.Electricity = f.Electricity
		case "notes":
			u.Notes = f.Notes
		}
	})
	return u
}

func newHouseDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a house with all of its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("house", args[0])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				res, err := s.repo.DeleteHouse(id)
				if err != nil {
					return err
				}
				return a.emit(cmd, res, func(w io.Writer) { printCascade(w, "house", id, res) })
			})
		},
	}
}
