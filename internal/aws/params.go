package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParamSource resolves credentials from SSM Parameter Store and Secrets Manager
type ParamSource struct {
	ssm *ssm.Client
	sm  *secretsmanager.Client
}

// NewParamSource creates a credential source backed by SSM and Secrets Manager
func NewParamSource(client *Client) *ParamSource {
	return &ParamSource{ssm: client.SSM, sm: client.SM}
}

// Get returns a credential value. Names starting with / are read from SSM
// Parameter Store with decryption; anything else from Secrets Manager.
func (p *ParamSource) Get(ctx context.Context, name string) (string, error) {
	if strings.HasPrefix(name, "/") {
		return p.getSSMParameter(ctx, name)
	}
	return p.getSecretsManager(ctx, name)
}

func (p *ParamSource) getSSMParameter(ctx context.Context, name string) (string, error) {
	out, err := p.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: boolPtr(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get SSM parameter %s: %w", name, err)
	}
	return deref(out.Parameter.Value), nil
}

func (p *ParamSource) getSecretsManager(ctx context.Context, name string) (string, error) {
	out, err := p.sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &name,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	return deref(out.SecretString), nil
}
