// Package secrets reads the breach API key from AWS Secrets Manager.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManagerClient defines the interface for AWS Secrets Manager operations.
type SecretsManagerClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// APIKeyFromARN fetches the secret and returns the key. The secret is either
// the raw key or JSON with an "api_key" field.
func APIKeyFromARN(ctx context.Context, client SecretsManagerClient, secretArn string) (string, error) {
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretArn),
	})
	if err != nil {
		return "", fmt.Errorf("get secret %s: %w", secretArn, err)
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretArn)
	}

	raw := strings.TrimSpace(aws.ToString(result.SecretString))
	if !strings.HasPrefix(raw, "{") {
		if raw == "" {
			return "", fmt.Errorf("secret %s is empty", secretArn)
		}
		return raw, nil
	}

	var parsed struct {
		APIKey string `json:"api_key"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", fmt.Errorf("unmarshal secret %s: %w", secretArn, err)
	}
	if parsed.APIKey == "" {
		return "", fmt.Errorf("secret %s has no api_key field", secretArn)
	}
	return parsed.APIKey, nil
}
