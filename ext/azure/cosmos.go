package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/cosmos/armcosmos/v2"
	"github.com/mitchellh/mapstructure"

	"github.com/srmds/takeoff/internal/errors"
)

const EntityCosmos = "cosmos"

// CosmosAccounts is the part of the cosmos management api used to look up
// account endpoints and keys.
type CosmosAccounts interface {
	Get(ctx context.Context, resourceGroupName string, accountName string, options *armcosmos.DatabaseAccountsClientGetOptions) (armcosmos.DatabaseAccountsClientGetResponse, error)
	ListKeys(ctx context.Context, resourceGroupName string, accountName string, options *armcosmos.DatabaseAccountsClientListKeysOptions) (armcosmos.DatabaseAccountsClientListKeysResponse, error)
	ListReadOnlyKeys(ctx context.Context, resourceGroupName string, accountName string, options *armcosmos.DatabaseAccountsClientListReadOnlyKeysOptions) (armcosmos.DatabaseAccountsClientListReadOnlyKeysResponse, error)
}

type CosmosCredentials struct {
	URI string `mapstructure:"cosmos_uri" json:"uri"`
	Key string `mapstructure:"cosmos_key" json:"key"`
}

// Secrets returns the credentials keyed by their secret names.
func (c CosmosCredentials) Secrets() (map[string]string, error) {
	secrets := map[string]string{}
	if err := mapstructure.Decode(c, &secrets); err != nil {
		return nil, err
	}
	return secrets, nil
}

type Cosmos struct {
	accounts      CosmosAccounts
	resourceGroup string
	account       string
}

func NewCosmos(accounts CosmosAccounts, resourceGroup, account string) *Cosmos {
	return &Cosmos{
		accounts:      accounts,
		resourceGroup: resourceGroup,
		account:       account,
	}
}

// OpenCosmos authenticates with the service principal and returns the cosmos account in the given resource group.
func OpenCosmos(sp ServicePrincipal, resourceGroup, account string) (*Cosmos, error) {
	cred, err := sp.Credential()
	if err != nil {
		return nil, err
	}
	client, err := armcosmos.NewDatabaseAccountsClient(sp.SubscriptionID, cred, nil)
	if err != nil {
		return nil, errors.Credential(EntityCosmos, "unable to create cosmos management client", err)
	}
	return NewCosmos(client, resourceGroup, account), nil
}

func (c *Cosmos) Endpoint(ctx context.Context) (string, error) {
	resp, err := c.accounts.Get(ctx, c.resourceGroup, c.account, nil)
	if err != nil {
		return "", errors.API(EntityCosmos, c.describe("unable to get account"), err)
	}
	if resp.Properties == nil || resp.Properties.DocumentEndpoint == nil {
		return "", errors.API(EntityCosmos, c.describe("no document endpoint for account"), nil)
	}
	return *resp.Properties.DocumentEndpoint, nil
}

func (c *Cosmos) WriteCredentials(ctx context.Context) (CosmosCredentials, error) {
	uri, err := c.Endpoint(ctx)
	if err != nil {
		return CosmosCredentials{}, err
	}
	resp, err := c.accounts.ListKeys(ctx, c.resourceGroup, c.account, nil)
	if err != nil {
		return CosmosCredentials{}, errors.API(EntityCosmos, c.describe("unable to list keys of account"), err)
	}
	if resp.PrimaryMasterKey == nil {
		return CosmosCredentials{}, errors.API(EntityCosmos, c.describe("no primary key for account"), nil)
	}
	return CosmosCredentials{URI: uri, Key: *resp.PrimaryMasterKey}, nil
}

func (c *Cosmos) ReadOnlyCredentials(ctx context.Context) (CosmosCredentials, error) {
	uri, err := c.Endpoint(ctx)
	if err != nil {
		return CosmosCredentials{}, err
	}
	resp, err := c.accounts.ListReadOnlyKeys(ctx, c.resourceGroup, c.account, nil)
	if err != nil {
		return CosmosCredentials{}, errors.API(EntityCosmos, c.describe("unable to list read-only keys of account"), err)
	}
	if resp.PrimaryReadonlyMasterKey == nil {
		return CosmosCredentials{}, errors.API(EntityCosmos, c.describe("no primary read-only key for account"), nil)
	}
	return CosmosCredentials{URI: uri, Key: *resp.PrimaryReadonlyMasterKey}, nil
}

// Credentials returns the read-only credentials when readOnly is set, the
// read-write credentials otherwise.
func (c *Cosmos) Credentials(ctx context.Context, readOnly bool) (CosmosCredentials, error) {
	if readOnly {
		return c.ReadOnlyCredentials(ctx)
	}
	return c.WriteCredentials(ctx)
}

func (c *Cosmos) describe(msg string) string {
	return fmt.Sprintf("%s %s in resource group %s", msg, c.account, c.resourceGroup)
}

// Secrets returns the credentials keyed by the names they are stored under.
func (c *Cosmos) Secrets(ctx context.Context, readOnly bool) (map[string]string, error) {
	creds, err := c.Credentials(ctx, readOnly)
	if err != nil {
		return nil, err
	}
	return creds.Secrets()
}
