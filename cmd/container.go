package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/config"
	"github.com/Abraxas-365/hirehub/pkg/fsx"
	"github.com/Abraxas-365/hirehub/pkg/fsx/fsxmem"
	"github.com/Abraxas-365/hirehub/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/hirehub/pkg/iam/auth"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/Abraxas-365/hirehub/recruitment/application/applicationapi"
	"github.com/Abraxas-365/hirehub/recruitment/application/applicationinfra"
	"github.com/Abraxas-365/hirehub/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/hirehub/recruitment/banner"
	"github.com/Abraxas-365/hirehub/recruitment/banner/bannerapi"
	"github.com/Abraxas-365/hirehub/recruitment/banner/bannerinfra"
	"github.com/Abraxas-365/hirehub/recruitment/banner/bannersrv"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidateapi"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidateauth"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidateinfra"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidatesrv"
	"github.com/Abraxas-365/hirehub/recruitment/job"
	"github.com/Abraxas-365/hirehub/recruitment/job/jobapi"
	"github.com/Abraxas-365/hirehub/recruitment/job/jobinfra"
	"github.com/Abraxas-365/hirehub/recruitment/job/jobsrv"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	projectionQueueName = "hirehub:projections"
	submitGuardPrefix   = "hirehub:submit"
	memoryQueueCapacity = 1024
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client

	// Auth
	TokenService    *auth.JWTService
	CandidateTokens *candidateauth.CandidateTokenService

	// Repositories
	CandidateRepo   candidate.Repository
	JobRepo         job.Repository
	BannerRepo      banner.Repository
	ApplicationRepo application.Repository
	ViewRepo        application.ViewRepository
	DeliveryQuery   application.DeliveryQuery
	ProjectionQueue application.ProjectionQueue
	SubmitGuard     application.SubmitGuard

	// Recruitment Services
	JobService           *jobsrv.JobService
	BannerService        *bannersrv.BannerService
	CandidateService     *candidatesrv.CandidateService
	CandidateAuthService *candidateauth.CandidateAuthService
	Projector            *applicationsrv.Projector
	ProjectionScheduler  *applicationsrv.ProjectionScheduler
	ProjectionWorker     *applicationsrv.ProjectionWorker
	ApplicationService   *applicationsrv.ApplicationService
	DeliveryService      *applicationsrv.DeliveryService
	StatusResolver       *applicationsrv.StatusResolver

	// API Handlers
	JobHandlers           *jobapi.Handlers
	BannerHandlers        *bannerapi.Handlers
	CandidateHandlers     *candidateapi.Handlers
	CandidateAuthHandlers *candidateauth.Handlers
	ApplicationHandlers   *applicationapi.Handlers

	// Middleware
	AuthMiddleware *auth.TokenMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	c := &Container{Config: cfg}
	c.initInfrastructure()
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	cfg := c.Config

	// 1. Database Connection
	if !cfg.UsesMemoryStore() {
		db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
		if err != nil {
			logx.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
		db.SetConnMaxLifetime(cfg.DBConnMaxLife)
		c.DB = db
	} else {
		logx.Warn("STORE_DRIVER=memory: data lives in this process only")
	}

	// 2. Redis Connection
	if cfg.RedisAddr != "" {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       0,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if _, err := c.Redis.Ping(ctx).Result(); err != nil {
			logx.Warnf("Failed to connect to Redis: %v", err)
		}
	}

	// 3. Object storage
	if cfg.AWSBucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logx.Fatalf("unable to load SDK config, %v", err)
		}
		c.S3Client = s3.NewFromConfig(awsCfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, cfg.AWSBucket, cfg.StorageBasePath)
	} else {
		logx.Warn("AWS_BUCKET is not set, résumés are kept in memory")
		c.FileSystem = fsxmem.New()
	}

	// 4. Tokens
	secret := cfg.JWTSecret
	if secret == "" {
		logx.Warn("JWT_SECRET is not set, using default (unsafe for production)")
		secret = "super-secret-key-please-change-me-in-production"
	}
	c.TokenService = auth.NewJWTService(secret, cfg.JWTIssuer)
	c.CandidateTokens = candidateauth.NewCandidateTokenService(c.TokenService, cfg.CandidateTokenTTL)
}

func (c *Container) initRepositories() {
	if c.DB != nil {
		c.CandidateRepo = candidateinfra.NewPostgresCandidateRepository(c.DB)
		c.JobRepo = jobinfra.NewPostgresJobRepository(c.DB)
		c.BannerRepo = bannerinfra.NewPostgresBannerRepository(c.DB)
		c.ApplicationRepo = applicationinfra.NewPostgresApplicationRepository(c.DB)
		c.ViewRepo = applicationinfra.NewPostgresViewRepository(c.DB)
		c.DeliveryQuery = applicationinfra.NewPostgresDeliveryQuery(c.DB)
	} else {
		candidates := candidateinfra.NewMemoryCandidateRepository()
		jobs := jobinfra.NewMemoryJobRepository()
		store := applicationinfra.NewMemoryStore()

		c.CandidateRepo = candidates
		c.JobRepo = jobs
		c.BannerRepo = bannerinfra.NewMemoryBannerRepository()
		c.ApplicationRepo = store.Applications()
		c.ViewRepo = store.Views()
		c.DeliveryQuery = store.Deliveries(candidates, jobs)
	}

	if c.Redis != nil {
		c.ProjectionQueue = applicationinfra.NewRedisProjectionQueue(c.Redis, projectionQueueName)
		c.SubmitGuard = applicationinfra.NewRedisSubmitGuard(c.Redis, submitGuardPrefix, c.Config.SubmitDebounce)
	} else {
		c.ProjectionQueue = applicationinfra.NewMemoryProjectionQueue(memoryQueueCapacity)
		c.SubmitGuard = applicationinfra.NewMemorySubmitGuard(c.Config.SubmitDebounce)
	}
}

func (c *Container) initServices() {
	cfg := c.Config

	// --- Projection ---
	c.Projector = applicationsrv.NewProjector(c.ApplicationRepo, c.ViewRepo, c.CandidateRepo, c.JobRepo)
	c.ProjectionScheduler = applicationsrv.NewProjectionScheduler(c.ProjectionQueue, c.Projector)
	c.ProjectionWorker = applicationsrv.NewProjectionWorker(
		c.Projector,
		c.ProjectionQueue,
		cfg.ProjectionWorkers,
		cfg.ProjectionMaxAttempts,
	)

	// --- Domain Services ---
	c.JobService = jobsrv.NewJobService(c.JobRepo, c.ProjectionScheduler)
	c.BannerService = bannersrv.NewBannerService(c.BannerRepo)
	c.CandidateService = candidatesrv.NewCandidateService(c.CandidateRepo, c.FileSystem, c.ProjectionScheduler)
	c.CandidateAuthService = candidateauth.NewCandidateAuthService(
		identityProvider(cfg),
		c.CandidateService,
		c.CandidateTokens,
	)

	c.ApplicationService = applicationsrv.NewApplicationService(
		c.ApplicationRepo,
		c.ViewRepo,
		c.JobRepo,
		c.Projector,
		c.ProjectionScheduler,
	)
	c.DeliveryService = applicationsrv.NewDeliveryService(c.DeliveryQuery, applicationsrv.DeliveryLimits{
		ListCap:       cfg.AdminListCap,
		ExportDefault: cfg.ExportDefaultLimit,
		ExportMax:     cfg.ExportMaxLimit,
	})
	c.StatusResolver = applicationsrv.NewStatusResolver(c.JobRepo, c.ApplicationRepo)

	// --- Handlers ---
	c.JobHandlers = jobapi.NewHandlers(c.JobService, c.StatusResolver)
	c.BannerHandlers = bannerapi.NewHandlers(c.BannerService)
	c.CandidateHandlers = candidateapi.NewHandlers(c.CandidateService)
	c.CandidateAuthHandlers = candidateauth.NewHandlers(
		c.CandidateAuthService,
		c.CandidateService,
		c.ApplicationService,
		c.DeliveryService,
		c.SubmitGuard,
	)
	c.ApplicationHandlers = applicationapi.NewHandlers(c.ApplicationService, c.DeliveryService)

	// --- Middleware ---
	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService)
}

func identityProvider(cfg *config.Config) candidate.IdentityProvider {
	switch cfg.IdentityProvider {
	case config.IdentityDev:
		logx.Warn("IDENTITY_PROVIDER=dev: any \"dev-<subject>\" code signs in as that subject")
		return candidateinfra.NewDevIdentityProvider()
	default:
		logx.Warn("IDENTITY_PROVIDER is not set, candidate login is disabled")
		return candidateinfra.DisabledIdentityProvider{}
	}
}

// Health reports the reachability of each backing store
func (c *Container) Health(ctx context.Context) map[string]bool {
	status := map[string]bool{}
	if c.DB != nil {
		status["db"] = c.DB.PingContext(ctx) == nil
	}
	if c.Redis != nil {
		status["redis"] = c.Redis.Ping(ctx).Err() == nil
	}
	return status
}

// Close releases connections held by the container
func (c *Container) Close() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Warnf("Failed to close database: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Warnf("Failed to close Redis: %v", err)
		}
	}
}
