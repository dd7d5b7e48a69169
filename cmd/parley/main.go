package main

import (
	"context"
	stdlog "log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/parleychat/parley/internal/auth"
	channelsrepo "github.com/parleychat/parley/internal/channels/repo"
	channelsservice "github.com/parleychat/parley/internal/channels/service"
	appConfig "github.com/parleychat/parley/internal/config"
	attachmentsHandler "github.com/parleychat/parley/internal/http-server/handlers/attachments"
	authHandler "github.com/parleychat/parley/internal/http-server/handlers/auth"
	channelsHandler "github.com/parleychat/parley/internal/http-server/handlers/channels"
	invitesHandler "github.com/parleychat/parley/internal/http-server/handlers/invites"
	messagesHandler "github.com/parleychat/parley/internal/http-server/handlers/messages"
	profileHandler "github.com/parleychat/parley/internal/http-server/handlers/profile"
	serversHandler "github.com/parleychat/parley/internal/http-server/handlers/servers"
	mwLogger "github.com/parleychat/parley/internal/http-server/middleware/logger"
	invitesrepo "github.com/parleychat/parley/internal/invites/repo"
	invitesservice "github.com/parleychat/parley/internal/invites/service"
	"github.com/parleychat/parley/internal/lib/logger/handlers/slogpretty"
	"github.com/parleychat/parley/internal/lib/logger/sl"
	messagesrepo "github.com/parleychat/parley/internal/messages/repo"
	messagesservice "github.com/parleychat/parley/internal/messages/service"
	serversrepo "github.com/parleychat/parley/internal/servers/repo"
	serversservice "github.com/parleychat/parley/internal/servers/service"
	"github.com/parleychat/parley/internal/storage/objectstore"
	postgres "github.com/parleychat/parley/internal/storage/postgres"
	uploadsrepo "github.com/parleychat/parley/internal/uploads/repo"
	uploadsservice "github.com/parleychat/parley/internal/uploads/service"
	usersrepo "github.com/parleychat/parley/internal/users/repo"
	usersservice "github.com/parleychat/parley/internal/users/service"
	wsHandler "github.com/parleychat/parley/internal/ws/handler"
	"github.com/parleychat/parley/internal/ws/hub"
)

const (
	envLocal = "local"
	envDev   = "dev"
)

func main() {
	if err := godotenv.Load("infra/.env"); err != nil {
		stdlog.Println("No .env file found, skipping...")
	}

	cfg := appConfig.MustLoad()

	log := setupLogger(cfg.Env)
	log.Info("starting parley", slog.String("env", cfg.Env))

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err := postgres.Migrate(db); err != nil {
		log.Error("failed to run migrations", sl.Err(err))
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		),
	)
	if err != nil {
		log.Error("failed to load aws config", sl.Err(err))
		os.Exit(1)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	})
	store := objectstore.New(cfg.S3.Bucket, s3Client, s3.NewPresignClient(s3Client))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	usersSvc := usersservice.New(usersrepo.New(db), tokens)
	serversSvc := serversservice.New(serversrepo.New(db))

	chRepo := channelsrepo.New(db)
	channelsSvc := channelsservice.New(chRepo, serversSvc)
	invitesSvc := invitesservice.New(invitesrepo.New(db), serversSvc)

	uploadsSvc := uploadsservice.New(store, uploadsrepo.New(db), chRepo, serversSvc, cfg.Uploads)
	messagesSvc := messagesservice.New(messagesrepo.New(db), chRepo, serversSvc, uploadsSvc, cfg.Messages)

	h := hub.NewHub()
	go h.Run()

	ah := authHandler.New(usersSvc, cfg.Auth.TokenTTL, log)
	ph := profileHandler.New(usersSvc, log)
	sh := serversHandler.New(serversSvc, log)
	chh := channelsHandler.New(channelsSvc, log)
	ih := invitesHandler.New(invitesSvc, usersSvc, log)
	mh := messagesHandler.New(messagesSvc, h, cfg.Uploads.MaxTotalSize+1<<20, log)
	atth := attachmentsHandler.New(uploadsSvc, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Post("/auth/register", ah.Register())
	router.Post("/auth/login", ah.Login())
	router.Post("/auth/logout", ah.Logout())

	router.Group(func(r chi.Router) {
		r.Use(auth.WithUser(tokens))

		r.Get("/me", ph.Get())
		r.Patch("/me", ph.Update())
		r.Post("/me/password", ph.ChangePassword())

		r.Post("/servers", sh.Create())
		r.Get("/servers", sh.List())
		r.Get("/servers/{serverId}", sh.Get())

		r.Post("/servers/{serverId}/channels", chh.Create())
		r.Get("/servers/{serverId}/channels", chh.List())

		r.Post("/servers/{serverId}/invites", ih.Create())
		r.Post("/servers/{serverId}/direct-invites", ih.SendDirect())
		r.Post("/invites/{code}/join", ih.Join())
		r.Get("/direct-invites", ih.Pending())
		r.Post("/direct-invites/{inviteId}/accept", ih.Accept())
		r.Post("/direct-invites/{inviteId}/decline", ih.Decline())

		r.Post("/channels/{channelId}/messages", mh.SendMessage())
		r.Get("/channels/{channelId}/messages", mh.GetMessages())

		r.Get("/attachments/{attachmentId}/url", atth.DownloadURL())

		r.Get("/ws", wsHandler.WSHandler(h, wsAccess{channels: chRepo, servers: serversSvc}, log))
	})

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Error("failed to start server", sl.Err(err))
	}

	log.Error("server stopped")
}

// wsAccess joins the channel directory and membership checks into the single
// dependency the websocket handler wants.
type wsAccess struct {
	channels *channelsrepo.Repo
	servers  *serversservice.Service
}

func (a wsAccess) ChannelServer(ctx context.Context, channelID int64) (int64, error) {
	return a.channels.ChannelServer(ctx, channelID)
}

func (a wsAccess) IsMember(ctx context.Context, serverID, userID int64) (bool, error) {
	return a.servers.IsMember(ctx, serverID, userID)
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return setupPrettySlog()
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
