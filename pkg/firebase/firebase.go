// Package firebase connects to Firebase Authentication so the API can accept
// Firebase ID tokens in place of its own JWTs.
package firebase

import (
	"context"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/alumni-forum/backend/pkg/logger"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// NewAuthClient returns an auth client for the service account stored at credentialsPath
func NewAuthClient(ctx context.Context, credentialsPath string) (*auth.Client, error) {
	if err := checkCredentials(credentialsPath); err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, errors.Wrap(err, "init firebase app")
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "init firebase auth client")
	}

	logger.Info("Firebase auth client ready", logger.String("credentials", credentialsPath))
	return client, nil
}

func checkCredentials(path string) error {
	if path == "" {
		return errors.New("FIREBASE_CREDENTIALS_PATH is empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "firebase credentials")
	}
	if info.IsDir() {
		return errors.Errorf("firebase credentials %s is a directory", path)
	}
	return nil
}
