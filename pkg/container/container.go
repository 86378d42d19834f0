package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/infrastructure/pubsub"
	"blog-backend/internal/infrastructure/queue"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/security"
	"blog-backend/internal/shared/validation"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"

	categoryHandler "blog-backend/internal/domains/category/handler"
	categoryRepo "blog-backend/internal/domains/category/repository"
	categoryService "blog-backend/internal/domains/category/service"
	commentHandler "blog-backend/internal/domains/comment/handler"
	commentRepo "blog-backend/internal/domains/comment/repository"
	commentService "blog-backend/internal/domains/comment/service"
	postHandler "blog-backend/internal/domains/post/handler"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"
	userHandler "blog-backend/internal/domains/user/handler"
	userRepo "blog-backend/internal/domains/user/repository"
	userService "blog-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Infrastructure fields are
// nil when the container was assembled from in-memory dependencies.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	AsynqClient *queue.Client

	Cache      cache.Cache
	Lists      *cache.ListCache
	Limiter    middleware.Limiter
	JWTManager *jwt.Manager
	Publisher  pubsub.Publisher
	Storage    storage.ObjectStorage
	Images     *storage.ImageProcessor
	Sanitizer  *security.Sanitizer

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo     userRepo.UserRepository
	PostRepo     postRepo.PostRepository
	CommentRepo  commentRepo.CommentRepository
	CategoryRepo categoryRepo.CategoryRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService     userService.ServiceInterface
	AuthService     userService.AuthServiceInterface
	PostService     postService.ServiceInterface
	CommentService  commentService.ServiceInterface
	CategoryService categoryService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler     *userHandler.UserHandler
	PostHandler     *postHandler.PostHandler
	CommentHandler  *commentHandler.CommentHandler
	CategoryHandler *categoryHandler.CategoryHandler
}

// Dependencies are the stateful pieces the domain layer is built on.
// NewContainer fills them from Postgres, Redis and MinIO; tests pass fakes.
type Dependencies struct {
	Cache      cache.Cache
	Publisher  pubsub.Publisher
	Storage    storage.ObjectStorage
	Cleanup    userService.AvatarCleanupEnqueuer // optional
	Users      userRepo.UserRepository
	Posts      postRepo.PostRepository
	Comments   commentRepo.CommentRepository
	Categories categoryRepo.CategoryRepository
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer connects every backing service and wires the domains.
// Order: config -> database -> redis -> object storage -> queue -> domains.
func NewContainer(ctx context.Context) (*Container, error) {
	log.Info().Msg("initializing container")

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Info().Str("environment", cfg.App.Environment).Msg("config loaded")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 2: DATABASE
	// ========================================
	dbConfig, err := cfg.DBConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.Migrate(connectCtx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// ========================================
	// STEP 3: REDIS (cache, blacklist, rate limits, pub/sub)
	// ========================================
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(connectCtx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	listStore, err := c.listStore()
	if err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// STEP 4: OBJECT STORAGE AND QUEUE
	// ========================================
	objects, err := storage.NewMinIOStorage(connectCtx, cfg.MinIO)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}

	c.AsynqClient = queue.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// ========================================
	// STEP 5: DOMAINS
	// ========================================
	pool := c.DB.Pool
	c.wire(Dependencies{
		Cache:      listStore,
		Publisher:  pubsub.NewRedisPublisher(c.Redis.Client),
		Storage:    objects,
		Cleanup:    c.AsynqClient,
		Users:      userRepo.NewPostgresUserRepository(pool),
		Posts:      postRepo.NewPostgresPostRepository(pool),
		Comments:   commentRepo.NewPostgresCommentRepository(pool),
		Categories: categoryRepo.NewPostgresCategoryRepository(pool),
	})

	log.Info().Msg("container initialized")
	return c, nil
}

// listStore picks the cache backend. The in-process LRU is per replica, so
// invalidations do not reach other instances.
func (c *Container) listStore() (cache.Cache, error) {
	if c.Config.Cache.Driver == "memory" {
		mem, err := infraCache.NewMemoryCache(4096)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}
		log.Warn().Msg("using in-process cache; list invalidation is local to this instance")
		return mem, nil
	}
	return infraCache.NewRedisCache(c.Redis.Client), nil
}

// New builds the domain layer over deps without touching the network.
func New(cfg *config.Config, deps Dependencies) *Container {
	c := &Container{Config: cfg}
	c.wire(deps)
	return c
}

func (c *Container) wire(deps Dependencies) {
	cfg := c.Config

	c.Cache = deps.Cache
	c.Lists = cache.NewListCache(deps.Cache, cfg.Cache.ListTTL)
	c.Limiter = middleware.NewCacheLimiter(deps.Cache)
	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
		jwt.NewCacheBlacklist(deps.Cache),
	)
	c.Publisher = deps.Publisher
	c.Storage = deps.Storage
	c.Images = storage.NewImageProcessor(cfg.Users.AvatarMaxSize, cfg.Users.AvatarFormats)
	if cfg.Users.AvatarMaxPixels > 0 {
		c.Images.MaxPixels = cfg.Users.AvatarMaxPixels
	}
	c.Sanitizer = security.NewSanitizer(cfg.Security.SanitizeMaxDepth)

	c.UserRepo = deps.Users
	c.PostRepo = deps.Posts
	c.CommentRepo = deps.Comments
	c.CategoryRepo = deps.Categories

	c.initServices(deps.Cleanup)
	c.initHandlers()
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initServices(cleanup userService.AvatarCleanupEnqueuer) {
	cfg := c.Config

	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.Lists,
		c.Sanitizer,
		validation.PasswordPolicy{
			MinLength:  cfg.Password.MinLength,
			MaxLength:  cfg.Password.MaxLength,
			MinEntropy: cfg.Password.MinEntropy,
		},
		cfg.Users,
		c.Images,
		c.Storage,
		cleanup,
	)
	c.AuthService = userService.NewAuthService(c.UserRepo, c.JWTManager, c.Sanitizer)
	c.PostService = postService.NewPostService(c.PostRepo, c.Lists, c.Sanitizer, cfg.Post)
	c.CommentService = commentService.NewCommentService(c.CommentRepo, c.Lists, c.Sanitizer, c.Publisher)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo, c.Lists, c.Sanitizer)
}

func (c *Container) initHandlers() {
	pages := c.Config.Pagination

	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.AuthService, pages, c.Config.Users.AvatarMaxSize)
	c.PostHandler = postHandler.NewPostHandler(c.PostService, pages)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService, pages)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService, pages)
}

// Cleanup closes whatever NewContainer opened.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close queue client")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}
	log.Info().Msg("container cleanup completed")
}
