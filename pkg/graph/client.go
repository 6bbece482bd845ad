package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
)

// DefaultTimeout bounds each individual Graph call. A hung call must not
// stall a whole offboarding run.
const DefaultTimeout = 30 * time.Second

// Config selects the credential and per-call behavior for a Client.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client bundles the Graph service client with the credential it was built
// from and the scope gate bound to that credential.
type Client struct {
	Graph   *msgraphsdk.GraphServiceClient
	Cred    azcore.TokenCredential
	Gate    *Gate
	timeout time.Duration
}

// NewClient builds a Graph client. A client secret in the config selects
// app-only auth; otherwise DefaultAzureCredential picks up whatever the
// environment provides (CLI login, managed identity, env vars).
func NewClient(cfg Config) (*Client, error) {
	var (
		cred azcore.TokenCredential
		err  error
	)
	if cfg.ClientSecret != "" {
		cred, err = azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil)
	} else {
		cred, err = azidentity.NewDefaultAzureCredential(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get Azure credentials: %w", err)
	}

	graphClient, err := msgraphsdk.NewGraphServiceClientWithCredentials(cred, []string{graphResource + "/.default"})
	if err != nil {
		return nil, fmt.Errorf("failed to create Graph client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		Graph:   graphClient,
		Cred:    cred,
		Gate:    NewGate(cred),
		timeout: timeout,
	}, nil
}

// CallContext derives the per-call timeout context every Graph request runs
// under.
func (c *Client) CallContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// VerifyConnection proves the credential works by fetching the organization
// object, and logs which tenant the session is bound to.
func (c *Client) VerifyConnection(ctx context.Context) error {
	callCtx, cancel := c.CallContext(ctx)
	defer cancel()

	org, err := c.Graph.Organization().Get(callCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to authenticate to Graph API: %w", err)
	}

	if vals := org.GetValue(); len(vals) > 0 {
		slog.Info("connected to Azure tenant",
			"tenant_id", StringValue(vals[0].GetId()),
			"tenant_name", StringValue(vals[0].GetDisplayName()))
	}
	return nil
}

// StringValue dereferences SDK string pointers, empty on nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// BoolValue dereferences SDK bool pointers, false on nil.
func BoolValue(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

// Int32Ptr is a convenience for Graph request Top parameters.
func Int32Ptr(i int32) *int32 {
	return &i
}

// StrPtr is a convenience for Graph request filter parameters.
func StrPtr(s string) *string {
	return &s
}
