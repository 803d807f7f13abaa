package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/taskhub/cmd/app/commands"
	"github.com/allisson/taskhub/internal/app"
	"github.com/allisson/taskhub/internal/config"
)

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Create an account, e.g. the first admin",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Email address",
				},
				&cli.StringFlag{
					Name:     "username",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Lowercase username",
				},
				&cli.StringFlag{
					Name:    "full-name",
					Aliases: []string{"n"},
					Usage:   "Display name",
				},
				&cli.StringFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Value:   "member",
					Usage:   "Role: 'admin', 'project_admin' or 'member'",
				},
				&cli.BoolFlag{
					Name:  "verified",
					Value: false,
					Usage: "Mark the email address as verified",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(ctx, userUseCase, container.Logger(), commands.CreateUserOptions{
					Email:    cmd.String("email"),
					Username: cmd.String("username"),
					FullName: cmd.String("full-name"),
					Role:     cmd.String("role"),
					Verified: cmd.Bool("verified"),
					Format:   cmd.String("format"),
				}, commands.DefaultIO())
			},
		},
	}
}
