package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/census/pkg/survey"
	"github.com/mesh-intelligence/census/pkg/types"
)

// emit writes v as indented JSON in --json mode and calls text otherwise.
func (a *app) emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if a.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	text(tw)
	return tw.Flush()
}

// parseID parses a positive record id argument.
func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, types.Validationf("invalid %s id %q", kind, arg)
	}
	return id, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printMembers(w io.Writer, members []*types.Member) {
	fmt.Fprintln(w, "ID\tNAME\tFATHER\tAGE\tGENDER\tCASTE\tHOUSE\tVOTER ID")
	for _, m := range members {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%d\t%s\n",
			m.ID, m.FullName, m.FatherName, m.Age, m.Gender, m.Caste, m.HouseID, yesNo(m.VoterID))
	}
}

func printMember(w io.Writer, m *types.Member) {
	fmt.Fprintf(w, "ID:\t%d\n", m.ID)
	fmt.Fprintf(w, "House:\t%d\n", m.HouseID)
	fmt.Fprintf(w, "Family:\t%s\n", m.FamilyID)
	fmt.Fprintf(w, "Name:\t%s\n", m.FullName)
	fmt.Fprintf(w, "Father:\t%s\n", m.FatherName)
	fmt.Fprintf(w, "DOB:\t%s (age %d)\n", m.DOB, m.Age)
	fmt.Fprintf(w, "Gender:\t%s\n", m.Gender)
	fmt.Fprintf(w, "Marital status:\t%s\n", m.MaritalStatus)
	fmt.Fprintf(w, "Education:\t%s\n", m.Education)
	fmt.Fprintf(w, "Occupation:\t%s\n", m.Occupation)
	fmt.Fprintf(w, "Mobile:\t%s\n", m.Mobile)
	fmt.Fprintf(w, "Caste:\t%s\n", m.Caste)
	fmt.Fprintf(w, "Disability:\t%s\n", yesNo(m.Disability))
	fmt.Fprintf(w, "Voter ID:\t%s\n", yesNo(m.VoterID))
	fmt.Fprintf(w, "Aadhaar verified:\t%s\n", yesNo(m.AadhaarVerified))
	if m.AadhaarLast4 != "" {
		fmt.Fprintf(w, "Aadhaar:\tXXXX-XXXX-%s\n", m.AadhaarLast4)
	}
	if m.Notes != "" {
		fmt.Fprintf(w, "Notes:\t%s\n", m.Notes)
	}
}

func printHouses(w io.Writer, houses []*types.House) {
	fmt.Fprintln(w, "ID\tVILLAGE\tNUMBER\tHEAD\tMOBILE\tFAMILY")
	for _, h := range houses {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n",
			h.ID, h.VillageID, h.HouseNumber, h.HeadName, h.HeadMobile, h.FamilyID)
	}
}

func printHouse(w io.Writer, h *types.House) {
	fmt.Fprintf(w, "ID:\t%d\n", h.ID)
	fmt.Fprintf(w, "Village:\t%d\n", h.VillageID)
	fmt.Fprintf(w, "Number:\t%s\n", h.HouseNumber)
	fmt.Fprintf(w, "Family:\t%s\n", h.FamilyID)
	fmt.Fprintf(w, "Head:\t%s\n", h.HeadName)
	fmt.Fprintf(w, "Mobile:\t%s\n", h.HeadMobile)
	fmt.Fprintf(w, "Caste category:\t%s\n", h.CasteCategory)
	fmt.Fprintf(w, "House type:\t%s\n", h.HouseType)
	fmt.Fprintf(w, "Toilet:\t%s\n", yesNo(h.Toilet))
	fmt.Fprintf(w, "Drinking water:\t%s\n", h.DrinkingWater)
	fmt.Fprintf(w, "Electricity:\t%s\n", yesNo(h.Electricity))
	if h.Notes != "" {
		fmt.Fprintf(w, "Notes:\t%s\n", h.Notes)
	}
}

func printCascade(w io.Writer, kind string, id int64, res survey.CascadeResult) {
	if res == (survey.CascadeResult{}) {
		fmt.Fprintf(w, "%s %d not found; nothing deleted\n", kind, id)
		return
	}
	fmt.Fprintf(w, "%s %d deleted (villages: %d, houses: %d, members: %d, images: %d)\n",
		kind, id, res.Villages, res.Houses, res.Members, res.Images)
}
