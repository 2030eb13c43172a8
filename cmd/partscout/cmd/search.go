package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/nvenk/partscout/internal/api/client"
)

func searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search [part number]",
		Short: "Find the cheapest offer for a part number",
		Long: "Sends a search request to the API server and displays every\n" +
			"quantity-1 offer, with the cheapest marked BEST.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := apiclient.New(viper.GetString("server"))

			offers, err := c.Search(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, apiclient.ErrNoOffers) {
					return fmt.Errorf("no offers found for %s", args[0])
				}
				return err
			}

			if jsonOutput() {
				return outputJSON(offers)
			}
			return printOffersTable(offers)
		},
	}
}
