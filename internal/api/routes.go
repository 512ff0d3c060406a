package api

import (
	"guildbank/internal/middleware" // JWT and admin middleware

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRoutes attaches every endpoint to the router.
func (a *API) RegisterRoutes(r *gin.Engine) {
	// Auth routes
	r.POST("/user", a.RegisterHandler()) // Registration endpoint
	r.GET("/user", a.LoginHandler())     // Login endpoint

	// Player routes (protected by JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(a.cfg.JWTSecret))

	auth.POST("/roll", a.RollHandler()) // Dice roll endpoint

	// Account routes operate on the caller's active character
	account := auth.Group("/account")
	account.GET("/balance", a.AccountBalanceHandler())               // Active character balance
	account.POST("/deposit", a.AccountDepositHandler())              // Deposit or withdraw coins
	account.POST("/send", a.AccountSendHandler())                    // Transfer to another account
	account.GET("/history", a.AccountHistoryHandler())               // Active character history
	account.DELETE("/transactions/:id", a.AccountDeleteTxHandler()) // Delete own pending transaction

	// Character routes
	characters := auth.Group("/characters")
	characters.GET("", a.ListCharactersHandler())         // Own characters
	characters.POST("", a.CreateCharacterHandler())       // Create a character
	characters.GET("/active", a.ActiveCharacterHandler()) // Active character info
	characters.POST("/active", a.SetActiveHandler())      // Pick the active character
	characters.PATCH("/:id", a.EditCharacterHandler())    // Edit own character fields

	// Initiative routes
	init := auth.Group("/initiative")
	init.GET("", a.InitiativeListHandler())           // Current turn order
	init.POST("", a.InitiativeSetHandler())           // Add or update a combatant
	init.DELETE("", a.InitiativeClearHandler())       // Clear the order
	init.DELETE("/:name", a.InitiativeRemoveHandler()) // Remove one combatant

	// Admin routes (protected, admin only)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(a.cfg.JWTSecret), middleware.AdminOnlyMiddleware(a.db))

	admin.GET("/users", a.ListUsersHandler())    // List users endpoint
	admin.GET("/errors", a.ErrorLogHandler())    // Recent unexpected errors

	// Bank administration
	bank := admin.Group("/bank")
	bank.GET("/balance", a.BankBalanceHandler())              // Guild bank balance
	bank.GET("/balance/:account", a.BalanceHandler())         // Any account balance
	bank.POST("/add", a.BankAddHandler())                     // Pay out of the bank
	bank.POST("/send", a.BankSendHandler())                   // Transfer between any accounts
	bank.GET("/pending", a.PendingHandler())                  // Unconfirmed transactions
	bank.POST("/confirm/:id", a.ConfirmHandler())             // Confirm a transaction
	bank.DELETE("/transactions/:id", a.DeleteTxHandler())     // Delete a transaction
	bank.GET("/history/:account", a.HistoryHandler())         // Any account history
	bank.GET("/accounts", a.ListAccountsHandler())            // All accounts

	// Character administration
	admin.GET("/characters", a.ListAllCharactersHandler())         // Every character
	admin.PATCH("/characters/:id/rank", a.SetRankHandler())        // Set guild rank
	admin.PATCH("/characters/:id/npc", a.SetNPCHandler())          // Flip the NPC flag
	admin.DELETE("/characters/:id", a.DeleteCharacterHandler())    // Remove a character

	// Embed administration
	embeds := admin.Group("/embeds")
	embeds.GET("", a.ListEmbedsHandler())              // Active embeds
	embeds.POST("", a.CreateEmbedHandler())            // Store a new embed
	embeds.GET("/:id", a.GetEmbedHandler())            // One embed record
	embeds.PATCH("/:id", a.EditEmbedHandler())         // Replace embed content
	embeds.POST("/:id/posted", a.MarkPostedHandler())  // Record where it was posted
	embeds.DELETE("/:id", a.DeleteEmbedHandler())      // Remove an embed

	// Quest administration
	quests := admin.Group("/quests")
	quests.GET("", a.ListQuestsHandler())               // Every quest
	quests.POST("", a.CreateQuestHandler())             // Create a quest
	quests.GET("/:id", a.GetQuestHandler())             // One quest with its party
	quests.PATCH("/:id", a.EditQuestHandler())          // Edit quest fields
	quests.POST("/:id/assign", a.AssignQuestHandler())  // Sign a character up
	quests.DELETE("/:id", a.DeleteQuestHandler())       // Remove a quest
}
