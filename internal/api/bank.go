package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"guildbank/internal/bank"   // Ledger service
	"guildbank/internal/domain" // Database models
	"guildbank/internal/store"  // Repositories
	"guildbank/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

// cacheTTL is how long balance and history responses stay cached.
const cacheTTL = 60 * time.Second

// balanceCacheKey builds the cache key for an account balance
func balanceCacheKey(account uint) string {
	return "balance:account:" + strconv.Itoa(int(account))
}

// historyCacheKey builds the cache key for one history page
func historyCacheKey(account uint, page, pageSize int) string {
	return "history:account:" + strconv.Itoa(int(account)) +
		":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
}

// invalidateAccounts drops cached balances and history pages for every
// account a transaction touched (simple version: delete first 5 pages)
func (a *API) invalidateAccounts(accounts ...uint) {
	if a.rdb == nil {
		return // Caching disabled
	}
	ctx := context.Background() // Context for Redis operations
	var keys []string
	for _, account := range accounts {
		keys = append(keys, balanceCacheKey(account)) // Balance cache key
		// Delete cache entries for the first pages of history
		for page := 1; page <= 5; page++ {
			keys = append(keys, historyCacheKey(account, page, 20))
		}
	}
	_ = utils.DeleteCache(ctx, a.rdb, keys...) // Invalidate all touched keys
}

// accountParam parses the :account path parameter
func accountParam(c *gin.Context) (uint, bool) {
	v, err := strconv.Atoi(c.Param("account"))
	if err != nil || v < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account number"})
		return 0, false
	}
	return uint(v), true
}

// checkReceiver rejects transactions aimed at an account number no
// character owns; such rows would be invisible to everyone forever
func (a *API) checkReceiver(c *gin.Context, account uint) bool {
	_, err := a.directory.Get(account)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Receiver not found"})
		return false
	}
	if err != nil {
		a.fail(c, err)
		return false
	}
	return true
}

// idParam parses the :id path parameter
func idParam(c *gin.Context) (uint, bool) {
	v, err := strconv.Atoi(c.Param("id"))
	if err != nil || v < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(v), true
}

// showBalance answers with an account's confirmed balance, cached
func (a *API) showBalance(c *gin.Context, account uint) {
	ctx := context.Background()            // Context for Redis operations
	cacheKey := balanceCacheKey(account)   // Cache key for the balance
	var cached map[domain.Currency]int     // Cached balance shape
	found, err := utils.GetCache(ctx, a.rdb, cacheKey, &cached)
	// If found in cache, return it
	if err == nil && found {
		c.JSON(http.StatusOK, gin.H{"account": account, "balance": cached, "cached": true})
		return
	}
	// If not in cache, derive from the ledger
	balance, err := a.bank.GetBalance(account)
	if err != nil {
		a.fail(c, err) // No history at all becomes 404
		return
	}
	_ = utils.SetCache(ctx, a.rdb, cacheKey, balance, cacheTTL) // Cache the balance
	c.JSON(http.StatusOK, gin.H{"account": account, "balance": balance, "cached": false})
}

// showHistory answers with one page of an account's history, cached
func (a *API) showHistory(c *gin.Context, account uint) {
	page := 1      // Default page
	pageSize := 20 // Default page size
	// If page exists in query
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// If page_size exists in query
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size if valid
		}
	}
	ctx := context.Background()                          // Context for Redis operations
	cacheKey := historyCacheKey(account, page, pageSize) // Cache key for this page
	var cached []domain.Transaction
	found, err := utils.GetCache(ctx, a.rdb, cacheKey, &cached)
	// If found in cache, return it
	if err == nil && found {
		c.JSON(http.StatusOK, gin.H{
			"account":      account, // Account number
			"transactions": cached,  // Cached page
			"page":         page,
			"page_size":    pageSize,
			"cached":       true,
		})
		return
	}
	// Fetch the page from the ledger, oldest of the window first
	rows, err := a.bank.History(account, pageSize, (page-1)*pageSize)
	if err != nil {
		a.fail(c, err)
		return
	}
	_ = utils.SetCache(ctx, a.rdb, cacheKey, rows, cacheTTL) // Cache the page
	c.JSON(http.StatusOK, gin.H{
		"account":      account,
		"transactions": rows,
		"page":         page,
		"page_size":    pageSize,
		"cached":       false,
	})
}

// BankBalanceHandler returns the guild bank's balance
func (a *API) BankBalanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.showBalance(c, domain.BankAccount) // Account 1 is the bank
	}
}

// BalanceHandler returns any account's balance (admin)
func (a *API) BalanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := accountParam(c)
		if !ok {
			return
		}
		a.showBalance(c, account)
	}
}

// Request struct for a bank payout
type BankAddRequest struct {
	To          uint   `json:"to" binding:"required"`          // Receiving account number
	Amounts     string `json:"amounts" binding:"required"`     // Coin string, e.g. "2g,5s"
	Description string `json:"description" binding:"required"` // Transaction description
	Confirm     bool   `json:"confirm"`                        // Confirm immediately
}

// BankAddHandler pays coins out of the guild bank into an account
func (a *API) BankAddHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := a.userID(c)
		if !ok {
			return
		}
		var req BankAddRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		amounts, err := bank.ParseCoinString(req.Amounts) // Parse the coin string
		if err != nil {
			a.fail(c, err)
			return
		}
		if !a.checkReceiver(c, req.To) {
			return
		}
		t, err := a.bank.CreateTransaction(actorID, amounts, req.Description, domain.BankAccount, req.To, req.Confirm)
		if err != nil {
			a.fail(c, err)
			return
		}
		a.invalidateAccounts(domain.BankAccount, req.To) // Both sides changed
		c.JSON(http.StatusCreated, gin.H{"transaction": t})
	}
}

// Request struct for an arbitrary transfer
type BankSendRequest struct {
	From        uint   `json:"from" binding:"required"`        // Sending account number
	To          uint   `json:"to" binding:"required"`          // Receiving account number
	Amounts     string `json:"amounts" binding:"required"`     // Coin string
	Description string `json:"description" binding:"required"` // Transaction description
	Confirm     bool   `json:"confirm"`                        // Confirm immediately
}

// BankSendHandler moves coins between any two accounts (admin)
func (a *API) BankSendHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := a.userID(c)
		if !ok {
			return
		}
		var req BankSendRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		amounts, err := bank.ParseCoinString(req.Amounts) // Parse the coin string
		if err != nil {
			a.fail(c, err)
			return
		}
		if !a.checkReceiver(c, req.To) {
			return
		}
		t, err := a.bank.CreateTransaction(actorID, amounts, req.Description, req.From, req.To, req.Confirm)
		if err != nil {
			a.fail(c, err)
			return
		}
		a.invalidateAccounts(req.From, req.To) // Both sides changed
		c.JSON(http.StatusCreated, gin.H{"transaction": t})
	}
}

// PendingHandler lists every unconfirmed transaction (admin)
func (a *API) PendingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := a.bank.Pending()
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": rows})
	}
}

// ConfirmHandler confirms a pending transaction and its linked partner
func (a *API) ConfirmHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		msg, err := a.bank.Confirm(id) // Unknown ids come back as a message, not an error
		if err != nil {
			a.fail(c, err)
			return
		}
		// Best effort cache invalidation for both touched accounts
		if t, err := a.bank.Get(id); err == nil {
			a.invalidateAccounts(t.SenderID, t.ReceiverID)
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}

// DeleteTxHandler removes a transaction and its linked partner (admin)
func (a *API) DeleteTxHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		// Read the row first so the touched accounts are known after deletion
		t, err := a.bank.Get(id)
		if err != nil {
			a.fail(c, err)
			return
		}
		count, err := a.bank.Delete(id)
		if err != nil {
			a.fail(c, err)
			return
		}
		a.invalidateAccounts(t.SenderID, t.ReceiverID)
		c.JSON(http.StatusOK, gin.H{"deleted": count})
	}
}

// HistoryHandler returns any account's history (admin)
func (a *API) HistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := accountParam(c)
		if !ok {
			return
		}
		a.showHistory(c, account)
	}
}

// ListAccountsHandler lists every account in the guild (admin)
func (a *API) ListAccountsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		characters, err := a.directory.All()
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"accounts": characters})
	}
}

// AccountBalanceHandler returns the caller's active character balance
func (a *API) AccountBalanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.userID(c)
		if !ok {
			return
		}
		account, err := a.directory.ResolveActiveAccount(userID)
		if err != nil {
			a.fail(c, err)
			return
		}
		a.showBalance(c, account)
	}
}

// Request struct for a deposit or withdrawal
type DepositRequest struct {
	Amounts     string `json:"amounts" binding:"required"`     // Coin string; negative parts withdraw
	Description string `json:"description" binding:"required"` // Transaction description
}

// AccountDepositHandler records coins found or spent by the active character.
// Deposits confirm immediately; the balance guard still rejects overdrafts.
func (a *API) AccountDepositHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.userID(c)
		if !ok {
			return
		}
		account, err := a.directory.ResolveActiveAccount(userID)
		if err != nil {
			a.fail(c, err)
			return
		}
		var req DepositRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		amounts, err := bank.ParseCoinString(req.Amounts) // Parse the coin string
		if err != nil {
			a.fail(c, err)
			return
		}
		// Self transaction: sender and receiver are the same account
		t, err := a.bank.CreateTransaction(userID, amounts, req.Description, account, account, true)
		if err != nil {
			a.fail(c, err)
			return
		}
		a.invalidateAccounts(account)
		c.JSON(http.StatusCreated, gin.H{"transaction": t})
	}
}

// Request struct for a player transfer
type SendRequest struct {
	To          uint   `json:"to" binding:"required"`          // Receiving account number
	Amounts     string `json:"amounts" binding:"required"`     // Coin string, positive parts only
	Description string `json:"description" binding:"required"` // Transaction description
}

// AccountSendHandler transfers coins from the active character to another
// account. Player transfers always start pending; an admin confirms them.
func (a *API) AccountSendHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.userID(c)
		if !ok {
			return
		}
		account, err := a.directory.ResolveActiveAccount(userID)
		if err != nil {
			a.fail(c, err)
			return
		}
		var req SendRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		amounts, err := bank.ParseCoinString(req.Amounts) // Parse the coin string
		if err != nil {
			a.fail(c, err)
			return
		}
		// Players cannot pull coins out of someone else's account
		if amounts.AnyNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Transfer amounts must be positive"})
			return
		}
		// A send to your own account would be an unlinked self credit
		if req.To == account {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot send money to yourself"})
			return
		}
		if !a.checkReceiver(c, req.To) {
			return
		}
		// The primary row goes on the target account; the negated linked row
		// lands on the sender. Nothing confirms until an admin signs off.
		t, err := a.bank.CreateTransaction(userID, amounts, req.Description, account, req.To, false)
		if err != nil {
			a.fail(c, err)
			return
		}
		a.invalidateAccounts(account, req.To)
		c.JSON(http.StatusCreated, gin.H{"transaction": t})
	}
}

// AccountHistoryHandler returns the active character's history
func (a *API) AccountHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.userID(c)
		if !ok {
			return
		}
		account, err := a.directory.ResolveActiveAccount(userID)
		if err != nil {
			a.fail(c, err)
			return
		}
		a.showHistory(c, account)
	}
}

// AccountDeleteTxHandler lets a player undo one of their own pending self
// transactions. Transfers and confirmed rows need an admin.
func (a *API) AccountDeleteTxHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.userID(c)
		if !ok {
			return
		}
		account, err := a.directory.ResolveActiveAccount(userID)
		if err != nil {
			a.fail(c, err)
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		t, err := a.bank.Get(id)
		if err != nil {
			a.fail(c, err)
			return
		}
		// Only the creator may delete, and only a self transaction on the
		// caller's own account. Anything else looks like a missing row.
		if t.CreatedBy != userID || t.SenderID != account || t.ReceiverID != account {
			a.fail(c, store.ErrNotFound)
			return
		}
		count, err := a.bank.Delete(id)
		if err != nil {
			a.fail(c, err)
			return
		}
		a.invalidateAccounts(account)
		c.JSON(http.StatusOK, gin.H{"deleted": count})
	}
}
