package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	"github.com/srmds/takeoff/internal/errors"
)

const EntityKeyVault = "keyvault"

// SecretStore reads named secrets.
type SecretStore interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

type secretsClient interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// KeyVault is a SecretStore backed by an Azure Key Vault.
type KeyVault struct {
	name   string
	client secretsClient
}

func VaultURL(name string) string {
	return fmt.Sprintf("https://%s.vault.azure.net/", name)
}

// NewKeyVault opens the vault with the given credential.
func NewKeyVault(name string, cred azcore.TokenCredential) (*KeyVault, error) {
	client, err := azsecrets.NewClient(VaultURL(name), cred, nil)
	if err != nil {
		return nil, errors.Credential(EntityKeyVault, "unable to create client for vault "+name, err)
	}
	return &KeyVault{name: name, client: client}, nil
}

// NewDefaultKeyVault opens the vault with the credential available in the
// environment: env vars, managed identity or the az cli login.
func NewDefaultKeyVault(name string) (*KeyVault, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, errors.Credential(EntityKeyVault, "unable to find azure credentials", err)
	}
	return NewKeyVault(name, cred)
}

func (k *KeyVault) GetSecret(ctx context.Context, name string) (string, error) {
	resp, err := k.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", errors.Credential(EntityKeyVault, fmt.Sprintf("unable to read secret [%s] from vault %s", name, k.name), err)
	}
	if resp.Value == nil {
		return "", errors.Credential(EntityKeyVault, fmt.Sprintf("secret [%s] in vault %s has no value", name, k.name), nil)
	}
	return *resp.Value, nil
}
