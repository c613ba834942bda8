package deployment

import (
	"context"
	"sort"

	"github.com/odpf/salt/log"
)

// putSecrets writes the secrets to the scope, creating it when needed.
func putSecrets(ctx context.Context, client SecretsClient, scope string, secrets map[string]string, logger log.Logger) error {
	if err := client.EnsureScope(ctx, scope); err != nil {
		return err
	}

	keys := make([]string, 0, len(secrets))
	for key := range secrets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := client.PutSecret(ctx, scope, key, secrets[key]); err != nil {
			return err
		}
		logger.Info("stored secret %s in scope %s", key, scope)
	}
	return nil
}
