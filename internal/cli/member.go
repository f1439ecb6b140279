package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/census/pkg/survey"
	"github.com/mesh-intelligence/census/pkg/types"
)

func newMemberCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Add, list, show, update and delete household members",
	}
	cmd.AddCommand(
		newMemberAddCmd(a),
		newMemberListCmd(a),
		newMemberGetCmd(a),
		newMemberUpdateCmd(a),
		newMemberDeleteCmd(a),
	)
	return cmd
}

// memberFlags registers the editable member fields on fs.
func memberFlags(fs *pflag.FlagSet, in *survey.MemberInput) {
	fs.StringVar(&in.FullName, "name", "", "full name")
	fs.StringVar(&in.FatherName, "father", "", "father's name")
	fs.StringVar(&in.DOB, "dob", "", "date of birth, YYYY-MM-DD")
	fs.StringVar(&in.Gender, "gender", "", "gender (Male, Female, Other)")
	fs.StringVar(&in.MaritalStatus, "marital", "", "marital status")
	fs.StringVar(&in.Education, "education", "", "education")
	fs.StringVar(&in.Occupation, "occupation", "", "occupation")
	fs.StringVar(&in.Mobile, "mobile", "", "mobile number")
	fs.BoolVar(&in.Disability, "disability", false, "member has a disability")
	fs.StringVar(&in.Caste, "caste", "", "caste category (SC, ST, OBC, General, Other)")
	fs.BoolVar(&in.VoterID, "voter-id", false, "member holds a voter id")
	fs.BoolVar(&in.AadhaarVerified, "aadhaar-verified", false, "Aadhaar has been verified")
	fs.StringVar(&in.AadhaarLast4, "aadhaar-last4", "", "last four digits of the Aadhaar number")
	fs.StringVar(&in.Notes, "notes", "", "notes")
}

func newMemberAddCmd(a *app) *cobra.Command {
	var in survey.MemberInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a member to a house",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				id, err := s.repo.AddMember(in)
				if err != nil {
					return err
				}
				m, err := s.repo.GetMember(id)
				if err != nil {
					return err
				}
				return a.emit(cmd, m, func(w io.Writer) {
					fmt.Fprintf(w, "member %d added (age %d)\n", m.ID, m.Age)
				})
			})
		},
	}
	cmd.Flags().Int64Var(&in.HouseID, "house", 0, "house id (required)")
	memberFlags(cmd.Flags(), &in)
	return cmd
}

func newMemberListCmd(a *app) *cobra.Command {
	var houseID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members, optionally of one house",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				var (
					members []*types.Member
					err     error
				)
				if houseID != 0 {
					members, err = s.repo.MembersByHouse(houseID)
				} else {
					members, err = s.repo.ListMembers()
				}
				if err != nil {
					return err
				}
				return a.emit(cmd, members, func(w io.Writer) { printMembers(w, members) })
			})
		},
	}
	cmd.Flags().Int64Var(&houseID, "house", 0, "only members of this house")
	return cmd
}

func newMemberGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("member", args[0])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				m, err := s.repo.GetMember(id)
				if err != nil {
					return err
				}
				return a.emit(cmd, m, func(w io.Writer) { printMember(w, m) })
			})
		},
	}
}

func newMemberUpdateCmd(a *app) *cobra.Command {
	var fields survey.MemberInput
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the details of a member",
		Long:  "Change the details of a member. Only the flags given are changed; the age is recomputed from the date of birth.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("member", args[0])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				current, err := s.repo.GetMember(id)
				if err != nil {
					return err
				}
				m, err := s.repo.UpdateMember(id, mergeMember(cmd.Flags(), current, fields))
				if err != nil {
					return err
				}
				return a.emit(cmd, m, func(w io.Writer) {
					fmt.Fprintf(w, "member %d updated\n", m.ID)
				})
			})
		},
	}
	memberFlags(cmd.Flags(), &fields)
	return cmd
}

// mergeMember starts from the stored member and applies the flags that were
// set on the command line.
func mergeMember(fs *pflag.FlagSet, m *types.Member, f survey.MemberInput) survey.MemberInput {
	in := survey.MemberInput{
		HouseID:         m.HouseID,
		FullName:        m.FullName,
		FatherName:      m.FatherName,
		DOB:             m.DOB,
		Gender:          m.Gender,
		MaritalStatus:   m.MaritalStatus,
		Education:       m.Education,
		Occupation:      m.Occupation,
		Mobile:          m.Mobile,
		Disability:      m.Disability,
		Caste:           m.Caste,
		VoterID:         m.VoterID,
		AadhaarVerified: m.AadhaarVerified,
		AadhaarLast4:    m.AadhaarLast4,
		Notes:           m.Notes,
	}
	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "name":
			in.FullName = f.FullName
		case "father":
			in.FatherName = f.FatherName
		case "dob":
			in.DOB = f.DOB
		case "gender":
			in.Gender = f.Gender
		case "marital":
			in.MaritalStatus = f.MaritalStatus
		case "education":
			in.Education = f.Education
		case "occupation":
			in.Occupation = f.Occupation
		case "mobile":
			in.Mobile = f.Mobile
		case "disability":
			in.Disability = f.Disability
		case "caste":
			in.Caste = f.Caste
		case "voter-id":
			in.VoterID = f.VoterID
		case "aadhaar-verified":
			in.AadhaarVerified = f.AadhaarVerified
		case "aadhaar-last4":
			in.AadhaarLast4 = f.AadhaarLast4
		case "notes":
			in.Notes = f.Notes
		}
	})
	return in
}

func newMemberDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a member and their Aadhaar image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("member", args[0])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				res, err := s.repo.DeleteMember(id)
				if err != nil {
					return err
				}
				return a.emit(cmd, res, func(w io.Writer) { printCascade(w, "member", id, res) })
			})
		},
	}
}
