package cmd

import (
	"github.com/spf13/cobra"
)

var policiesCmd = &cobra.Command{
	Use:   "time-away-policies",
	Short: "Get time away policies",
	Args:  cobra.NoArgs,
	RunE:  resourceRunner("time-away-policies"),
}

var periodsCmd = &cobra.Command{
	Use:   "time-away-periods",
	Short: "Get time away periods",
	Args:  cobra.NoArgs,
	RunE:  resourceRunner("time-away-periods"),
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Get the person owning the API token",
	Args:  cobra.NoArgs,
	RunE:  runMe,
}

var personCmd = &cobra.Command{
	Use:   "person [id]",
	Short: "Get a single person",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPerson,
}

var ptoCmd = &cobra.Command{
	Use:   "pto [id]",
	Short: "Get paid time off for a person in their current period",
	Long: `Get the current time-away period of a person together with the paid time
off booked in it. Without an id the authenticated person is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPTO,
}

// resourceRunner prints a raw API collection.
func resourceRunner(path string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		data, err := client.GetResource(cmd.Context(), path, nil)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), data)
	}
}

func runMe(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd.Context())
	if err != nil {
		return err
	}
	me, err := client.Me(cmd.Context())
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), me)
}

func runPerson(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd.Context())
	if err != nil {
		return err
	}
	// A missing id is passed through so the client reports it.
	person, err := client.Person(cmd.Context(), optionalID(args))
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), person)
}

func runPTO(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd.Context())
	if err != nil {
		return err
	}
	b, err := fetchBundle(cmd, client, args)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), b)
}

func optionalID(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
