package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/profile"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the hospital name and contacts printed by the console",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the hospital profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.renderProfile(a.profile.Get())
		},
	}

	var name, tagline, address, phone, email string
	set := &cobra.Command{
		Use:   "set",
		Short: "Change one or more profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			var p profile.Partial
			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = &name
			}
			if flags.Changed("tagline") {
				p.Tagline = &tagline
			}
			if flags.Changed("address") {
				p.Address = &address
			}
			if flags.Changed("phone") {
				p.Phone = &phone
			}
			if flags.Changed("email") {
				p.Email = &email
			}
			if p.Empty() {
				return fmt.Errorf("nothing to change: pass at least one of --name, --tagline, --address, --phone, --email")
			}
			updated, err := a.profile.Update(cmd.Context(), p)
			if err != nil {
				return err
			}
			return a.renderProfile(updated)
		},
	}
	set.Flags().StringVar(&name, "name", "", "Hospital name")
	set.Flags().StringVar(&tagline, "tagline", "", "Tagline")
	set.Flags().StringVar(&address, "address", "", "Postal address")
	set.Flags().StringVar(&phone, "phone", "", "Phone number")
	set.Flags().StringVar(&email, "email", "", "Contact email")

	cmd.AddCommand(show, set)
	return protect(a, cmd)
}

func (a *app) renderProfile(p profile.Profile) error {
	return a.render(p, func(w io.Writer) {
		row(w, "Name:", p.Name)
		row(w, "Tagline:", p.Tagline)
		row(w, "Address:", p.Address)
		row(w, "Phone:", p.Phone)
		row(w, "Email:", p.Email)
	})
}
