package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/imrishuroy/go-pizza-cartflow/internal/app"
	"github.com/imrishuroy/go-pizza-cartflow/internal/aws"
	"github.com/imrishuroy/go-pizza-cartflow/internal/cart"
	"github.com/imrishuroy/go-pizza-cartflow/internal/config"
	"github.com/imrishuroy/go-pizza-cartflow/internal/handlers"
	"github.com/imrishuroy/go-pizza-cartflow/internal/validation"
)

func setupRouter(deps handlers.Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	handlers.RegisterRoutes(r, deps)

	return r
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	st, closer, err := app.NewStore(ctx, cfg, clients)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer closer.Close()

	v := validation.New()
	authority := app.NewAuthority(cfg, st)
	menuSource := app.NewMenuSource(cfg, st)

	deps := handlers.Deps{
		Validator: v,
		Carts:     cart.NewService(v, authority, menuSource, st, cart.WithQuantityPolicy(app.QuantityPolicy(cfg))),
		Menu:      menuSource,
		Tokens:    authority,
	}
	if cfg.QueueURL != "" {
		deps.Publisher = aws.NewPublisher(clients.SQS, cfg.QueueURL)
	}

	r := setupRouter(deps)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		log.Printf("running local server on %s (store=%s tokens=%s)", cfg.Addr, cfg.StoreBackend, cfg.TokenAuthority)
		if err := r.Run(cfg.Addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
