package app

import (
	"fmt"
	"sync"

	authHTTP "github.com/allisson/taskhub/internal/auth/http"
	authRepository "github.com/allisson/taskhub/internal/auth/repository"
	authService "github.com/allisson/taskhub/internal/auth/service"
	authUseCase "github.com/allisson/taskhub/internal/auth/usecase"
	"github.com/allisson/taskhub/internal/database"
	"github.com/allisson/taskhub/internal/mailer"
	userRepository "github.com/allisson/taskhub/internal/user/repository"
	userUseCase "github.com/allisson/taskhub/internal/user/usecase"
)

// authComponents groups the auth and user components of the Container.
type authComponents struct {
	credentialService authService.CredentialService
	tokenIssuer       authService.TokenIssuer
	mailer            mailer.Mailer

	userRepo  authUseCase.UserRepository
	tokenRepo authUseCase.TemporaryTokenRepository

	authUseCase authUseCase.AuthUseCase
	userUseCase userUseCase.UseCase
	authHandler *authHTTP.AuthHandler

	credentialServiceInit sync.Once
	tokenIssuerInit       sync.Once
	mailerInit            sync.Once
	userRepoInit          sync.Once
	tokenRepoInit         sync.Once
	authUseCaseInit       sync.Once
	userUseCaseInit       sync.Once
	authHandlerInit       sync.Once
}

// CredentialService returns the password hashing service selected by PASSWORD_HASH_ALGORITHM.
func (c *Container) CredentialService() (authService.CredentialService, error) {
	err := c.once(&c.credentialServiceInit, "credentialService", func() (err error) {
		c.credentialService, err = authService.NewCredentialServiceFromConfig(c.config)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.credentialService, nil
}

// TokenIssuer returns the signed and temporary token issuer.
func (c *Container) TokenIssuer() (authService.TokenIssuer, error) {
	err := c.once(&c.tokenIssuerInit, "tokenIssuer", func() (err error) {
		c.tokenIssuer, err = authService.NewTokenIssuerFromConfig(c.config)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.tokenIssuer, nil
}

// Mailer returns the outgoing mail sender.
func (c *Container) Mailer() mailer.Mailer {
	c.mailerInit.Do(func() {
		c.mailer = mailer.NewLogMailer(c.Logger())
	})
	return c.mailer
}

// UserRepository returns the user repository for the configured driver.
func (c *Container) UserRepository() (authUseCase.UserRepository, error) {
	err := c.once(&c.userRepoInit, "userRepo", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for user repository: %w", err)
		}

		switch {
		case database.IsPostgreSQL(c.config.DBDriver):
			c.userRepo = userRepository.NewPostgreSQLUserRepository(db)
		case c.config.DBDriver == "mysql":
			c.userRepo = userRepository.NewMySQLUserRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.userRepo, nil
}

// TemporaryTokenRepository returns the temporary token repository for the configured driver.
func (c *Container) TemporaryTokenRepository() (authUseCase.TemporaryTokenRepository, error) {
	err := c.once(&c.tokenRepoInit, "tokenRepo", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for temporary token repository: %w", err)
		}

		switch {
		case database.IsPostgreSQL(c.config.DBDriver):
			c.tokenRepo = authRepository.NewPostgreSQLTemporaryTokenRepository(db)
		case c.config.DBDriver == "mysql":
			c.tokenRepo = authRepository.NewMySQLTemporaryTokenRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.tokenRepo, nil
}

// AuthUseCase returns the auth use case, decorated with metrics when they are enabled.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	err := c.once(&c.authUseCaseInit, "authUseCase", func() (err error) {
		c.authUseCase, err = c.initAuthUseCase()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.authUseCase, nil
}

// UserUseCase returns the account administration use case.
func (c *Container) UserUseCase() (userUseCase.UseCase, error) {
	err := c.once(&c.userUseCaseInit, "userUseCase", func() error {
		txManager, err := c.TxManager()
		if err != nil {
			return fmt.Errorf("failed to get tx manager for user use case: %w", err)
		}
		userRepo, err := c.UserRepository()
		if err != nil {
			return fmt.Errorf("failed to get user repository for user use case: %w", err)
		}
		credentialService, err := c.CredentialService()
		if err != nil {
			return fmt.Errorf("failed to get credential service for user use case: %w", err)
		}
		c.userUseCase = userUseCase.NewUserUseCase(txManager, userRepo, credentialService)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.userUseCase, nil
}

// AuthHandler returns the HTTP handler for the /v1/auth endpoints.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	err := c.once(&c.authHandlerInit, "authHandler", func() error {
		useCase, err := c.AuthUseCase()
		if err != nil {
			return fmt.Errorf("failed to get auth use case for auth handler: %w", err)
		}
		c.authHandler = authHTTP.NewAuthHandler(useCase, nil, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.authHandler, nil
}

func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for auth use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for auth use case: %w", err)
	}

	tokenRepo, err := c.TemporaryTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get temporary token repository for auth use case: %w", err)
	}

	credentialService, err := c.CredentialService()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential service for auth use case: %w", err)
	}

	tokenIssuer, err := c.TokenIssuer()
	if err != nil {
		return nil, fmt.Errorf("failed to get token issuer for auth use case: %w", err)
	}

	baseUseCase := authUseCase.NewAuthUseCase(
		c.config,
		txManager,
		userRepo,
		tokenRepo,
		credentialService,
		tokenIssuer,
		c.Mailer(),
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
		}
		return authUseCase.NewAuthUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
