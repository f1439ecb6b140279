package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/census/pkg/query"
	"github.com/mesh-intelligence/census/pkg/types"
)

func newFilterCmd(a *app) *cobra.Command {
	var (
		ageMin, ageMax      int
		disability, voterID bool
		c                   query.Criteria
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List members matching every given criterion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if fs.Changed("age-min") {
				c.AgeMin = query.Int(ageMin)
			}
			if fs.Changed("age-max") {
				c.AgeMax = query.Int(ageMax)
			}
			if fs.Changed("disability") {
				c.Disability = query.Bool(disability)
			}
			if fs.Changed("voter-id") {
				c.VoterID = query.Bool(voterID)
			}
			return a.run(func(s *session) error {
				members, err := query.New(s.repo).FilterMembers(c)
				if err != nil {
					return err
				}
				return a.emit(cmd, members, func(w io.Writer) { printMembers(w, members) })
			})
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&ageMin, "age-min", 0, "minimum age, inclusive")
	fs.IntVar(&ageMax, "age-max", 0, "maximum age, inclusive")
	fs.StringVar(&c.Gender, "gender", "", "gender")
	fs.StringVar(&c.Caste, "caste", "", "caste category")
	fs.StringVar(&c.Education, "education", "", "education")
	fs.StringVar(&c.Occupation, "occupation", "", "occupation")
	fs.BoolVar(&disability, "disability", false, "has a disability")
	fs.BoolVar(&voterID, "voter-id", false, "holds a voter id")
	fs.Int64Var(&c.VillageID, "village", 0, "village id")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>...",
		Short: "Search members by name, father's name, mobile, caste, family id or house number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			return a.run(func(s *session) error {
				results, err := query.New(s.repo).SearchMembers(q)
				if err != nil {
					return err
				}
				return a.emit(cmd, results, func(w io.Writer) {
					fmt.Fprintln(w, "ID\tNAME\tFATHER\tAGE\tHOUSE\tVILLAGE\tFAMILY")
					for _, r := range results {
						village := "-"
						if r.Village != nil {
							village = r.Village.Name
						}
						fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
							r.Member.ID, r.Member.FullName, r.Member.FatherName, r.Member.Age,
							r.House.HouseNumber, village, r.Member.FamilyID)
					}
				})
			})
		},
	}
}

// voterAge returns the --voter-age flag when given and the stored voter
// eligibility age otherwise.
func voterAge(cmd *cobra.Command, s *session, flag int) (int, error) {
	if cmd.Flags().Changed("voter-age") {
		return flag, nil
	}
	return s.repo.VoterEligibilityAge()
}

func newStatsCmd(a *app) *cobra.Command {
	var age int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dataset totals by gender and caste",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				threshold, err := voterAge(cmd, s, age)
				if err != nil {
					return err
				}
				sum, err := query.New(s.repo).Summary(threshold)
				if err != nil {
					return err
				}
				return a.emit(cmd, sum, func(w io.Writer) { printSummary(w, sum) })
			})
		},
	}
	cmd.Flags().IntVar(&age, "voter-age", 0, "voter eligibility age (default: stored setting)")
	return cmd
}

func printSummary(w io.Writer, s *query.Summary) {
	fmt.Fprintf(w, "Villages:\t%d\n", s.Villages)
	fmt.Fprintf(w, "Houses:\t%d\n", s.Houses)
	fmt.Fprintf(w, "Families:\t%d\n", s.Families)
	fmt.Fprintf(w, "Members:\t%d\n", s.Members)
	for _, g := range []string{types.GenderMale, types.GenderFemale, types.GenderOther} {
		fmt.Fprintf(w, "  %s:\t%d\n", g, s.ByGender[g])
	}
	for _, c := range []string{types.CasteSC, types.CasteST, types.CasteOBC, types.CasteGeneral, types.CasteOther} {
		fmt.Fprintf(w, "  %s:\t%d\n", c, s.ByCaste[c])
	}
	fmt.Fprintf(w, "With disability:\t%d\n", s.Disability)
	fmt.Fprintf(w, "New voters required (age %d+):\t%d\n", s.VoterAge, s.NewVotersRequired)
}

func newVotersCmd(a *app) *cobra.Command {
	var age int
	cmd := &cobra.Command{
		Use:   "voters",
		Short: "List members of voting age without a voter id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				threshold, err := voterAge(cmd, s, age)
				if err != nil {
					return err
				}
				members, err := query.New(s.repo).NewVotersRequired(threshold)
				if err != nil {
					return err
				}
				return a.emit(cmd, members, func(w io.Writer) { printMembers(w, members) })
			})
		},
	}
	cmd.Flags().IntVar(&age, "voter-age", 0, "voter eligibility age (default: stored setting)")
	return cmd
}
