package identity

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/estilosboom/boom-backend/pkg/config"
	"github.com/estilosboom/boom-backend/pkg/enums"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/logger"
	"google.golang.org/api/option"
)

// RoleClaim is the custom-claim key carried by provider tokens.
const RoleClaim = "role"

// UserRecord is the provider-side view of an account.
type UserRecord struct {
	UID            string
	Email          string
	ProviderEmails []string
	PhotoURL       string
}

// TokenClaims is the decoded assertion presented on each request.
type TokenClaims struct {
	UID  string
	Role string
}

// Provider is the identity surface consumed by domain services. *Client is
// the Firebase-backed implementation; tests substitute stubs.
type Provider interface {
	GetUser(ctx context.Context, uid string) (*UserRecord, error)
	CreateUser(ctx context.Context, email, password string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	SetRoleClaim(ctx context.Context, uid string, role enums.Role) error
	PasswordResetLink(ctx context.Context, email string) (string, error)
	VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error)
}

// Client wraps the Firebase Admin auth client.
type Client struct {
	auth *auth.Client
}

// New initializes the Firebase app and its auth client.
func New(ctx context.Context, cfg config.FirebaseConfig, logg *logger.Logger) (*Client, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase auth: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "identity provider client initialized")
	}
	return &Client{auth: authClient}, nil
}

// GetUser loads the provider record for uid, including linked-provider emails.
func (c *Client) GetUser(ctx context.Context, uid string) (*UserRecord, error) {
	record, err := c.auth.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "unknown identity")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeProvider, err, "fetching identity record")
	}

	out := &UserRecord{
		UID:      record.UID,
		Email:    record.Email,
		PhotoURL: record.PhotoURL,
	}
	for _, info := range record.ProviderUserInfo {
		if info != nil && info.Email != "" {
			out.ProviderEmails = append(out.ProviderEmails, info.Email)
		}
	}
	return out, nil
}

// CreateUser provisions an email/password account and returns its uid.
func (c *Client) CreateUser(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := c.auth.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", pkgerrors.Wrap(pkgerrors.CodeEmailExists, err, "el correo ya fue registrado previamente")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeProvider, err, "provisioning identity account")
	}
	return record.UID, nil
}

// DeleteUser removes a provider account. Callers use it to roll back
// provisioning when the local transaction cannot commit; a missing account
// is treated as already rolled back.
func (c *Client) DeleteUser(ctx context.Context, uid string) error {
	if err := c.auth.DeleteUser(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeProvider, err, "deleting identity account")
	}
	return nil
}

// SetRoleClaim publishes the local role back to the provider so subsequent
// tokens carry it.
func (c *Client) SetRoleClaim(ctx context.Context, uid string, role enums.Role) error {
	claims := map[string]interface{}{RoleClaim: role.String()}
	if err := c.auth.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeProvider, err, "setting role claim")
	}
	return nil
}

// PasswordResetLink generates the provider-hosted reset action link.
func (c *Client) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := c.auth.PasswordResetLink(ctx, email)
	if err != nil {
		// Federated accounts have no password to reset; the admin SDK
		// refuses to mint an action link for them.
		if strings.Contains(err.Error(), "Unable to create the email action link") {
			return "", pkgerrors.Wrap(pkgerrors.CodeInvalidProvider, err, "este correo está registrado con un proveedor externo")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeProvider, err, "generating password reset link")
	}
	return link, nil
}

// VerifyToken decodes and validates a bearer ID token.
func (c *Client) VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error) {
	token, err := c.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	claims := &TokenClaims{UID: token.UID}
	if role, ok := token.Claims[RoleClaim].(string); ok {
		claims.Role = role
	}
	return claims, nil
}
