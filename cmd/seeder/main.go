package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"
	"go.mongodb.org/mongo-driver/mongo"

	bootcamprepo "github.com/devcamper/devcamper-api/internal/bootcamp/repository"
	"github.com/devcamper/devcamper-api/internal/config"
	courserepo "github.com/devcamper/devcamper-api/internal/course/repository"
	"github.com/devcamper/devcamper-api/internal/database"
	"github.com/devcamper/devcamper-api/internal/models"
	"github.com/devcamper/devcamper-api/internal/seed"
	"github.com/devcamper/devcamper-api/internal/tokens"
	"github.com/devcamper/devcamper-api/internal/users"
	"github.com/devcamper/devcamper-api/pkg/logger"
)

const (
	dirFlagName  = "dir"
	subFlagName  = "sub"
	roleFlagName = "role"
	ttlFlagName  = "ttl"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	app := cli.NewApp()
	app.Name = "seeder"
	app.Usage = "load or remove devcamper fixture data"
	app.Commands = []cli.Command{
		importCommand(),
		destroyCommand(),
		tokenCommand(),
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatalf("seeder: %v", err)
	}
}

type stores struct {
	client    *mongo.Client
	bootcamps *bootcamprepo.MongoRepo
	courses   *courserepo.MongoRepo
	users     *users.MongoUserRepository
}

func (s *stores) close() { _ = s.client.Disconnect(context.Background()) }

func open(ctx context.Context, cfg *config.Config) (*stores, error) {
	client, err := database.Connect(ctx, cfg.MongoDB, database.Retry{Attempts: 1})
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB.Database)
	s := &stores{client: client, users: users.NewMongoUserRepository(db.Collection("users"))}
	if s.bootcamps, err = bootcamprepo.NewMongoRepo(ctx, db.Collection("bootcamps")); err != nil {
		s.close()
		return nil, err
	}
	if s.courses, err = courserepo.NewMongoRepo(ctx, db.Collection("courses")); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func importCommand() cli.Command {
	return cli.Command{
		Name:  "import",
		Usage: "insert bootcamps, courses and users from the fixture directory",
		Flags: []cli.Flag{
			cli.StringFlag{Name: dirFlagName, Value: "data", Usage: "directory holding bootcamps.json, courses.json and users.json"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			data, err := seed.Load(c.String(dirFlagName))
			if err != nil {
				return err
			}
			ctx := context.Background()
			s, err := open(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			seeder := &seed.Seeder{Bootcamps: s.bootcamps, Courses: s.courses, Users: s.users}
			sum, err := seeder.Import(ctx, data)
			if err != nil {
				return err
			}
			fmt.Printf("Data imported: %d bootcamps, %d courses, %d users\n", sum.Bootcamps, sum.Courses, sum.Users)

			if cfg.JWT.Secret == "" {
				return nil
			}
			for _, u := range data.Users {
				tok, err := tokens.GenerateAccessToken(cfg, u, cfg.JWT.AccessTokenTTL)
				if err != nil {
					return err
				}
				fmt.Printf("%-10s %s %s\n", u.Role, u.Email, tok)
			}
			return nil
		},
	}
}

func destroyCommand() cli.Command {
	return cli.Command{
		Name:  "destroy",
		Usage: "delete every bootcamp and course",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			s, err := open(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			n, err := seed.Destroy(ctx, s.courses, s.bootcamps)
			if err != nil {
				return err
			}
			fmt.Printf("Data destroyed: %d documents\n", n)
			return nil
		},
	}
}

func tokenCommand() cli.Command {
	return cli.Command{
		Name:  "token",
		Usage: "print an access token for local development",
		Flags: []cli.Flag{
			cli.StringFlag{Name: subFlagName, Usage: "token subject (user id)"},
			cli.StringFlag{Name: roleFlagName, Value: "publisher", Usage: "user, publisher or admin"},
			cli.DurationFlag{Name: ttlFlagName, Value: 24 * time.Hour, Usage: "token lifetime"},
		},
		Action: func(c *cli.Context) error {
			sub := c.String(subFlagName)
			if sub == "" {
				return errors.New("--sub is required")
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			tok, err := tokens.GenerateAccessToken(cfg, &models.User{Sub: sub, Role: c.String(roleFlagName)}, c.Duration(ttlFlagName))
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
}
