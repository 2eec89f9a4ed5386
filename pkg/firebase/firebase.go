package firebase

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-midea/accounts/internal/models"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// tokenVerifier is the part of *auth.Client the login exchange needs.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// App holds the initialized Firebase app and turns ID tokens into identities.
type App struct {
	FirebaseApp *firebase.App
	verifier    tokenVerifier
}

// InitFirebase connects to Firebase with the service account at credentialsPath.
// An empty path disables Firebase and yields (nil, nil).
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		logrus.Info("Firebase credentials not configured, Firebase login disabled.")
		return nil, nil
	}
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	logrus.WithField("credentials", credentialsPath).Info("Firebase login enabled.")
	return &App{FirebaseApp: app, verifier: client}, nil
}

// VerifyIdentity checks the signature and expiry of idToken and returns the
// identity it asserts.
func (a *App) VerifyIdentity(ctx context.Context, idToken string) (*models.Identity, error) {
	token, err := a.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	id := IdentityFromToken(token)
	return &id, nil
}

// IdentityFromToken reads the standard Firebase claims. A missing or
// non-boolean email_verified claim counts as unverified.
func IdentityFromToken(token *auth.Token) models.Identity {
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	verified, _ := token.Claims["email_verified"].(bool)
	return models.Identity{
		UID:           token.UID,
		Email:         email,
		EmailVerified: verified,
		Name:          name,
	}
}
