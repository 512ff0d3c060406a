// Package api is the command layer: gin handlers over the ledger, directory,
// quest board and dice services.
package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"guildbank/internal/bank"       // Ledger service
	"guildbank/internal/config"     // Configuration
	"guildbank/internal/dice"       // Dice engine
	"guildbank/internal/directory"  // Character directory
	"guildbank/internal/embeds"     // Embed records
	"guildbank/internal/errlog"     // Recent-error ring buffer
	"guildbank/internal/initiative" // Initiative tracker
	"guildbank/internal/quests"     // Quest board
	"guildbank/internal/store"      // Repositories

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // ORM library
)

// failMessage is what a caller sees when something broke on our side. The
// real error goes to the log and the error buffer, never to the caller.
const failMessage = "Sorry, something went wrong. We will look into it."

// API bundles every service the handlers need. Handlers are methods that
// return gin.HandlerFunc closures, so each route captures only this struct.
type API struct {
	cfg        *config.Config
	log        *logrus.Logger
	rdb        *redis.Client // nil disables caching
	db         *gorm.DB
	users      *store.UserStore
	dice       *dice.Engine
	bank       *bank.Service
	directory  *directory.Directory
	embeds     *embeds.Service
	quests     *quests.Service
	initiative *initiative.Tracker
	errors     *errlog.Log
}

// New wires an API over the given services.
func New(
	cfg *config.Config,
	log *logrus.Logger,
	rdb *redis.Client,
	db *gorm.DB,
	users *store.UserStore,
	diceEngine *dice.Engine,
	bankSvc *bank.Service,
	dir *directory.Directory,
	embedSvc *embeds.Service,
	questSvc *quests.Service,
	tracker *initiative.Tracker,
	errLog *errlog.Log,
) *API {
	return &API{
		cfg:        cfg,
		log:        log,
		rdb:        rdb,
		db:         db,
		users:      users,
		dice:       diceEngine,
		bank:       bankSvc,
		directory:  dir,
		embeds:     embedSvc,
		quests:     questSvc,
		initiative: tracker,
		errors:     errLog,
	}
}

// fail maps a service error onto an HTTP response. Known sentinels become
// 400/404 with the error text; anything else is recorded in the error buffer,
// logged, and answered with the generic failure message.
func (a *API) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dice.ErrParse),
		errors.Is(err, bank.ErrBadArgument),
		errors.Is(err, bank.ErrInsufficientFunds),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, directory.ErrNoActiveCharacter),
		errors.Is(err, embeds.ErrBadContent),
		errors.Is(err, quests.ErrBadStatus):
		// Caller mistakes: bad expressions, bad coin strings, overdrafts
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, bank.ErrNoTransactions):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		origin := c.Request.Method + " " + c.FullPath() // What was being handled
		a.errors.Record(origin, err)                    // Keep it inspectable from chat
		a.log.WithFields(logrus.Fields{
			"origin": origin,      // Method and route
			"error":  err.Error(), // Error message
		}).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMessage})
	}
}

// userID reads the authenticated user id the JWT middleware stored. A
// missing id means the middleware did not run; treat it as unauthorized.
func (a *API) userID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	id, ok := v.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return id, true
}
