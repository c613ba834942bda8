package azure

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/srmds/takeoff/config"
	"github.com/srmds/takeoff/internal/errors"
)

const EntityServicePrincipal = "service principal"

type ServicePrincipal struct {
	TenantID       string
	ClientID       string
	ClientSecret   string
	SubscriptionID string
}

// ServicePrincipalFromStore reads the deployment service principal from the
// secret store, using the configured key names.
func ServicePrincipalFromStore(ctx context.Context, store SecretStore, keys config.KeyvaultKeys) (ServicePrincipal, error) {
	var sp ServicePrincipal
	secrets := []struct {
		key    string
		target *string
	}{
		{keys.TenantID, &sp.TenantID},
		{keys.ClientID, &sp.ClientID},
		{keys.ClientSecret, &sp.ClientSecret},
		{keys.SubscriptionID, &sp.SubscriptionID},
	}
	for _, s := range secrets {
		value, err := store.GetSecret(ctx, s.key)
		if err != nil {
			return ServicePrincipal{}, err
		}
		*s.target = value
	}
	return sp, nil
}

func (sp ServicePrincipal) Credential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewClientSecretCredential(sp.TenantID, sp.ClientID, sp.ClientSecret, nil)
	if err != nil {
		return nil, errors.Credential(EntityServicePrincipal, "unable to create credential for client "+sp.ClientID, err)
	}
	return cred, nil
}
