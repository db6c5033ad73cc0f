package api

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/tung362/votecatalog/api/controllers"
	"github.com/tung362/votecatalog/api/transport"
	"github.com/tung362/votecatalog/lobby"
	"github.com/tung362/votecatalog/logging"
	"github.com/tung362/votecatalog/registry"
	"github.com/tung362/votecatalog/storage"
)

type Server struct {
	config *Config
	host   registry.HostBuild
}

// NewServer returns a server whose lobby catalog is built by host.
func NewServer(config *Config, host registry.HostBuild) *Server {
	return &Server{
		config: config,
		host:   host,
	}
}

// BuildLobby loads the configured extension manifests and commits the
// catalog.
func (s *Server) BuildLobby() (*lobby.Context, error) {
	l, err := lobby.New(s.config.LobbySettings())
	if err != nil {
		return nil, err
	}
	if err := l.LoadExtensions(s.config.Manifests); err != nil {
		return nil, fmt.Errorf("loading extensions: %w", err)
	}
	report, err := l.Commit(s.host)
	if err != nil {
		return nil, fmt.Errorf("committing catalog: %w", err)
	}
	for _, failure := range report.Failures {
		logging.Logger().Warnf("API: dropped %s", failure.Error())
	}
	return l, nil
}

func (s *Server) storages(ctx context.Context) (storage.ResultStorage, storage.SnapshotStorage, error) {
	if s.config.Driver == StorageDriverMemory {
		logging.Logger().Info("API: using in-memory storage")
		return storage.NewMemoryResultStorage(), storage.NewMemorySnapshotStorage(), nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	dynamoClient := dynamodb.NewFromConfig(cfg)

	results := &storage.DynamoResultStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameResults,
	}
	snapshots := &storage.DynamoSnapshotStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameSnapshots,
	}
	return results, snapshots, nil
}

// Router builds the gin engine with every controller registered.
func (s *Server) Router(l *lobby.Context, results storage.ResultStorage, snapshots storage.SnapshotStorage) *gin.Engine {
	r := transport.NewRouter(gin.DebugMode)

	//Register controllers
	controllers.NewCatalogController(l).RegisterRoutes(r)
	controllers.NewPollController(l).RegisterRoutes(r)
	controllers.NewSyncController(l, results, snapshots, s.config.AdminToken).RegisterRoutes(r)
	controllers.NewSessionController(results, snapshots).RegisterRoutes(r)
	return r
}

func (s *Server) Start() {
	l, err := s.BuildLobby()
	if err != nil {
		logging.Logger().Errorf("failed to build lobby: %v", err)
		panic("failed to build lobby")
	}

	results, snapshots, err := s.storages(context.Background())
	if err != nil {
		logging.Logger().Errorf("failed to create storage: %v", err)
		panic("failed to create storage")
	}

	r := s.Router(l, results, snapshots)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

// StartLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Logger().Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Logger().Info("Starting lambda")
	lambda.Start(handler)
}

// StartLocal starts a normal HTTP server on the configured port
func startLocal(engine *gin.Engine, port int) {
	logging.Logger().Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Logger().Fatalf("Failed to run server: %v", err)
	}
}
