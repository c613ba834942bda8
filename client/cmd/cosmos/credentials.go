package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/srmds/takeoff/client/cmd/internal"
	"github.com/srmds/takeoff/client/cmd/internal/connection"
	"github.com/srmds/takeoff/client/cmd/internal/logger"
	"github.com/srmds/takeoff/config"
	"github.com/srmds/takeoff/core/version"
	"github.com/srmds/takeoff/ext/azure"
)

const credentialsTimeout = time.Minute

type credentialsCommand struct {
	logger log.Logger
	flags  internal.ProjectFlags

	conf *config.Config
	app  version.Metadata

	readOnly bool
	showKey  bool
	asJSON   bool
}

// NewCredentialsCommand initializes command to fetch cosmos credentials
func NewCredentialsCommand() *cobra.Command {
	creds := &credentialsCommand{
		logger: logger.NewDefaultLogger(),
	}
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Print the endpoint and key of the cosmos account",
		Long: heredoc.Doc(`Look up the cosmos account named by azure.cosmos_naming in the resource group
				named by azure.resource_group_naming, authenticating with the service principal
				kept in the key vault.`),
		Example: "takeoff cosmos credentials [--read-only] [--show-key]",
		RunE:    creds.RunE,
		PreRunE: creds.PreRunE,
	}
	creds.flags.Inject(cmd.Flags())
	cmd.Flags().BoolVar(&creds.readOnly, "read-only", false, "Fetch the read-only key")
	cmd.Flags().BoolVar(&creds.showKey, "show-key", false, "Print the key instead of a masked value")
	cmd.Flags().BoolVar(&creds.asJSON, "json", false, "Print as json, implies --show-key")
	return cmd
}

func (c *credentialsCommand) PreRunE(_ *cobra.Command, _ []string) error {
	conf, app, err := internal.LoadConfig(c.flags)
	if err != nil {
		return err
	}
	if err := config.ValidateCosmos(conf); err != nil {
		return err
	}
	c.conf, c.app = conf, app
	c.logger = logger.NewClientLogger(conf.Log)
	return nil
}

func (c *credentialsCommand) RunE(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), credentialsTimeout)
	defer cancel()

	cosmos, err := connection.New(c.conf, c.app, c.logger).CosmosAccount(ctx)
	if err != nil {
		return err
	}
	creds, err := cosmos.Credentials(ctx, c.readOnly)
	if err != nil {
		return err
	}

	if c.asJSON {
		raw, err := json.MarshalIndent(creds, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return nil
	}
	printCredentials(cmd.OutOrStdout(), creds, c.showKey)
	return nil
}

func printCredentials(out io.Writer, creds azure.CosmosCredentials, showKey bool) {
	key := creds.Key
	if !showKey {
		key = mask(key)
	}

	table := tablewriter.NewWriter(out)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"URI", "KEY"})
	table.Append([]string{creds.URI, key})
	table.Render()
}

func mask(secret string) string {
	const visible = 4
	if len(secret) <= visible {
		return strings.Repeat("*", len(secret))
	}
	return secret[:visible] + strings.Repeat("*", len(secret)-visible)
}
