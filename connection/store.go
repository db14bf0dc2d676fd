package connection

import (
	"context"
	"fmt"

	"bdcserver/services"
	"bdcserver/store"
	"bdcserver/store/fsstore"
	"bdcserver/store/memstore"
	"bdcserver/store/mongostore"

	firebase "firebase.google.com/go"
	"go.uber.org/zap"
)

// Backends holds the store and identity verifier selected by Config.
type Backends struct {
	Store    store.Store
	Verifier services.IdentityVerifier
}

// OpenBackends connects the configured store and builds the identity
// verifier. The Firebase app is initialized only when one of them needs it.
func OpenBackends(ctx context.Context, cfg *Config, log *zap.Logger) (*Backends, error) {
	var app *firebase.App
	if cfg.StoreDriver == DriverFirestore || cfg.AuthProvider == AuthFirebase {
		var err error
		if app, err = FBConnection(ctx, cfg.CredentialsFile); err != nil {
			return nil, err
		}
	}

	st, err := openStore(ctx, cfg, app, log)
	if err != nil {
		return nil, err
	}

	verifier, err := newVerifier(ctx, cfg, app)
	if err != nil {
		_ = st.Close(ctx)
		return nil, err
	}
	return &Backends{Store: st, Verifier: verifier}, nil
}

func openStore(ctx context.Context, cfg *Config, app *firebase.App, log *zap.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case DriverMongo:
		return mongostore.NewStore(mongostore.Config{
			URI:              cfg.MongoURI,
			Database:         cfg.DBName,
			OperationTimeout: cfg.StoreOpTimeout,
		}, log)
	case DriverFirestore:
		client, err := FirestoreClient(ctx, app)
		if err != nil {
			return nil, err
		}
		log.Info("firestore connection successful")
		return fsstore.New(client, cfg.StoreOpTimeout, log), nil
	case DriverMemory:
		log.Warn("using in-memory store, data is lost on exit")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func newVerifier(ctx context.Context, cfg *Config, app *firebase.App) (services.IdentityVerifier, error) {
	switch cfg.AuthProvider {
	case AuthJWT:
		return services.JWTVerifier{Secret: []byte(cfg.JWTSecret)}, nil
	case AuthFirebase:
		client, err := AuthClient(ctx, app)
		if err != nil {
			return nil, err
		}
		return services.FirebaseVerifier{Client: client}, nil
	default:
		return nil, fmt.Errorf("unknown AUTH_PROVIDER %q", cfg.AuthProvider)
	}
}
