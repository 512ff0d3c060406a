package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"guildbank/internal/bank"
	"guildbank/internal/config"
	"guildbank/internal/dice"
	"guildbank/internal/directory"
	"guildbank/internal/domain"
	"guildbank/internal/embeds"
	"guildbank/internal/errlog"
	"guildbank/internal/initiative"
	"guildbank/internal/quests"
	"guildbank/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

// newTestAPI wires the full command layer over a per-test in-memory
// database. The redis client is nil, so handlers run without caching.
func newTestAPI(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := store.InitDB("sqlite", dsn)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{JWTSecret: "test-secret"}

	users := store.NewUserStore(db)
	characters := store.NewCharacterStore(db)
	transactions := store.NewTransactionStore(db)
	embedStore := store.NewEmbedStore(db)
	questStore := store.NewQuestStore(db)

	bankSvc := bank.NewService(transactions, log)
	dir := directory.New(users, characters, log)
	embedSvc := embeds.NewService(embedStore, log)
	questSvc := quests.NewService(questStore, embedSvc, log)

	app := New(
		cfg, log, nil, db,
		users,
		dice.NewWithSource(rand.NewSource(1)),
		bankSvc,
		dir,
		embedSvc,
		questSvc,
		initiative.New(),
		errlog.New(),
	)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	app.RegisterRoutes(r)
	return &testEnv{router: r, db: db}
}

func httpDo(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// signup registers a user and returns their login token.
func signup(t *testing.T, env *testEnv, username string) string {
	t.Helper()
	creds := gin.H{"username": username, "password": "hunter2hunter2"}
	w := httpDo(env.router, "POST", "/user", "", creds)
	require.Equal(t, http.StatusCreated, w.Code)
	w = httpDo(env.router, "GET", "/user", "", creds)
	require.Equal(t, http.StatusOK, w.Code)
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// makeAdmin promotes a registered user.
func makeAdmin(t *testing.T, env *testEnv, username string) {
	t.Helper()
	err := env.db.Model(&domain.User{}).Where("username = ?", username).Update("role", "admin").Error
	require.NoError(t, err)
}

// addCharacter creates a character and makes it the caller's active one,
// returning its account number.
func addCharacter(t *testing.T, env *testEnv, token, name string) uint {
	t.Helper()
	w := httpDo(env.router, "POST", "/characters", token, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Character domain.Character `json:"character"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	w = httpDo(env.router, "POST", "/characters/active", token, gin.H{"character_id": created.Character.ID})
	require.Equal(t, http.StatusOK, w.Code)
	return created.Character.ID
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestAPI(t)

	creds := gin.H{"username": "alice", "password": "hunter2hunter2"}
	w := httpDo(env.router, "POST", "/user", "", creds)
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate username is rejected
	w = httpDo(env.router, "POST", "/user", "", creds)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Short passwords are rejected
	w = httpDo(env.router, "POST", "/user", "", gin.H{"username": "bob", "password": "short"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong password
	w = httpDo(env.router, "GET", "/user", "", gin.H{"username": "alice", "password": "wrongwrongwrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct password yields a token
	w = httpDo(env.router, "GET", "/user", "", creds)
	require.Equal(t, http.StatusOK, w.Code)
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
}

func TestRollEndpoint(t *testing.T) {
	env := newTestAPI(t)
	token := signup(t, env, "roller")

	// No token
	w := httpDo(env.router, "POST", "/roll", "", gin.H{"expression": "1d20"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httpDo(env.router, "POST", "/roll", token, gin.H{"expression": "2d6+3"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Result dice.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Result.Rolls, 2)
	require.Equal(t, 3, resp.Result.Static)
	require.GreaterOrEqual(t, resp.Result.Total, 5)
	require.LessOrEqual(t, resp.Result.Total, 15)

	// Malformed expressions are caller mistakes
	w = httpDo(env.router, "POST", "/roll", token, gin.H{"expression": "2x6"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountLifecycle(t *testing.T) {
	env := newTestAPI(t)
	token := signup(t, env, "alice")

	// No active character yet
	w := httpDo(env.router, "GET", "/account/balance", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	account := addCharacter(t, env, token, "kara")
	require.Greater(t, account, domain.BankAccount)

	// Fresh account has no history at all
	w = httpDo(env.router, "GET", "/account/balance", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Deposit some loot
	w = httpDo(env.router, "POST", "/account/deposit", token, gin.H{
		"amounts":     "10g,5s",
		"description": "goblin cave loot",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Transaction domain.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	depositID := created.Transaction.ID

	w = httpDo(env.router, "GET", "/account/balance", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balResp struct {
		Balance map[string]int `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balResp))
	require.Equal(t, 10, balResp.Balance["gold"])
	require.Equal(t, 5, balResp.Balance["silver"])
	require.Equal(t, 0, balResp.Balance["platinum"])

	// Withdrawing more than the balance is rejected
	w = httpDo(env.router, "POST", "/account/deposit", token, gin.H{
		"amounts":     "-20g",
		"description": "impossible spending spree",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Send coins to the guild bank; player transfers start pending
	w = httpDo(env.router, "POST", "/account/send", token, gin.H{
		"to":          domain.BankAccount,
		"amounts":     "3g",
		"description": "guild dues",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var sent struct {
		Transaction domain.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))
	require.False(t, sent.Transaction.Confirmed)
	require.NotNil(t, sent.Transaction.LinkedID)

	// Negative transfer amounts are rejected outright
	w = httpDo(env.router, "POST", "/account/send", token, gin.H{
		"to":          domain.BankAccount,
		"amounts":     "-3g",
		"description": "reverse pickpocket",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The pending transfer does not move the confirmed balance
	w = httpDo(env.router, "GET", "/account/balance", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balResp))
	require.Equal(t, 10, balResp.Balance["gold"])

	// History covers both the deposit and the pending debit
	w = httpDo(env.router, "GET", "/account/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var histResp struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &histResp))
	require.Len(t, histResp.Transactions, 2)

	// The transfer is not a self transaction, so the player cannot delete it
	linkedPath := "/account/transactions/" + strconv.Itoa(int(*sent.Transaction.LinkedID))
	w = httpDo(env.router, "DELETE", linkedPath, token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// The deposit is, and deleting it empties the confirmed ledger
	w = httpDo(env.router, "DELETE", "/account/transactions/"+strconv.Itoa(int(depositID)), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = httpDo(env.router, "GET", "/account/balance", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendValidation(t *testing.T) {
	env := newTestAPI(t)
	token := signup(t, env, "alice")
	account := addCharacter(t, env, token, "kara")

	w := httpDo(env.router, "POST", "/account/deposit", token, gin.H{
		"amounts":     "10g",
		"description": "starting funds",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Sending to your own account is not a transfer
	w = httpDo(env.router, "POST", "/account/send", token, gin.H{
		"to":          account,
		"amounts":     "1g",
		"description": "note to self",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "yourself")

	// An account number no character owns cannot receive coins
	w = httpDo(env.router, "POST", "/account/send", token, gin.H{
		"to":          999,
		"amounts":     "1g",
		"description": "into the void",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Receiver not found")

	// Neither attempt left rows behind
	w = httpDo(env.router, "GET", "/account/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var histResp struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &histResp))
	require.Len(t, histResp.Transactions, 1)

	// The keeper endpoints refuse ghost receivers the same way
	adminToken := signup(t, env, "keeper")
	makeAdmin(t, env, "keeper")
	w = httpDo(env.router, "POST", "/admin/bank/add", adminToken, gin.H{
		"to":          999,
		"amounts":     "5g",
		"description": "reward for nobody",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Receiver not found")

	w = httpDo(env.router, "POST", "/admin/bank/send", adminToken, gin.H{
		"from":        domain.BankAccount,
		"to":          999,
		"amounts":     "5g",
		"description": "reward for nobody",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Receiver not found")
}

func TestAdminBankFlow(t *testing.T) {
	env := newTestAPI(t)
	adminToken := signup(t, env, "keeper")
	makeAdmin(t, env, "keeper")
	playerToken := signup(t, env, "alice")
	account := addCharacter(t, env, playerToken, "kara")

	// Fund the bank with a confirmed self transaction
	w := httpDo(env.router, "POST", "/admin/bank/send", adminToken, gin.H{
		"from":        domain.BankAccount,
		"to":          domain.BankAccount,
		"amounts":     "100g",
		"description": "initial treasury",
		"confirm":     true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = httpDo(env.router, "GET", "/admin/bank/balance", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balResp struct {
		Balance map[string]int `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balResp))
	require.Equal(t, 100, balResp.Balance["gold"])

	// Pay the player out of the bank, pending admin confirmation
	w = httpDo(env.router, "POST", "/admin/bank/add", adminToken, gin.H{
		"to":          account,
		"amounts":     "5g",
		"description": "quest reward",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Transaction domain.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.False(t, created.Transaction.Confirmed)

	// Both the payout and its linked debit show up as pending
	w = httpDo(env.router, "GET", "/admin/bank/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	require.Len(t, pending.Transactions, 2)

	// Confirming the payout confirms the linked debit as well
	w = httpDo(env.router, "POST", "/admin/bank/confirm/"+strconv.Itoa(int(created.Transaction.ID)), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var msg struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	require.Contains(t, msg.Message, "Confirmed transaction:")

	w = httpDo(env.router, "GET", "/admin/bank/balance/"+strconv.Itoa(int(account)), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balResp))
	require.Equal(t, 5, balResp.Balance["gold"])

	w = httpDo(env.router, "GET", "/admin/bank/balance", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balResp))
	require.Equal(t, 95, balResp.Balance["gold"])

	// Deleting the payout removes both rows and restores the treasury
	w = httpDo(env.router, "DELETE", "/admin/bank/transactions/"+strconv.Itoa(int(created.Transaction.ID)), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted struct {
		Deleted int64 `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	require.Equal(t, int64(2), deleted.Deleted)

	w = httpDo(env.router, "GET", "/admin/bank/balance", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balResp))
	require.Equal(t, 100, balResp.Balance["gold"])

	// The accounts list includes the seeded bank and the player's character
	w = httpDo(env.router, "GET", "/admin/bank/accounts", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var accounts struct {
		Accounts []domain.Character `json:"accounts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accounts))
	require.Len(t, accounts.Accounts, 2)
}

func TestAdminGuards(t *testing.T) {
	env := newTestAPI(t)
	playerToken := signup(t, env, "alice")

	// No token at all
	w := httpDo(env.router, "GET", "/admin/users", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// A plain player is not an admin
	w = httpDo(env.router, "GET", "/admin/users", playerToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	adminToken := signup(t, env, "keeper")
	makeAdmin(t, env, "keeper")
	w = httpDo(env.router, "GET", "/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Users []UserAdminResponse `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 2)

	// The error buffer starts empty
	w = httpDo(env.router, "GET", "/admin/errors", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var errResp struct {
		Errors []errlog.Entry `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	require.Empty(t, errResp.Errors)
}

func TestInitiativeEndpoints(t *testing.T) {
	env := newTestAPI(t)
	token := signup(t, env, "gm")

	w := httpDo(env.router, "POST", "/initiative", token, gin.H{"name": "Goblin King", "value": 17})
	require.Equal(t, http.StatusOK, w.Code)
	w = httpDo(env.router, "POST", "/initiative", token, gin.H{"name": "Kara", "value": 21})
	require.Equal(t, http.StatusOK, w.Code)

	w = httpDo(env.router, "GET", "/initiative", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Order []initiative.Entry `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Order, 2)
	require.Equal(t, "Kara", resp.Order[0].Name)

	// Removal matches on a case-insensitive name fragment
	w = httpDo(env.router, "DELETE", "/initiative/goblin", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = httpDo(env.router, "DELETE", "/initiative/goblin", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httpDo(env.router, "DELETE", "/initiative", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = httpDo(env.router, "GET", "/initiative", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Empty(t, resp.Order)
}

func TestEmbedEndpoints(t *testing.T) {
	env := newTestAPI(t)
	adminToken := signup(t, env, "keeper")
	makeAdmin(t, env, "keeper")

	w := httpDo(env.router, "POST", "/admin/embeds", adminToken, gin.H{
		"content": `{"title":"Notice board"}`,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Embed domain.EmbedRecord `json:"embed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Content that is not a JSON object is a caller mistake on create
	w = httpDo(env.router, "POST", "/admin/embeds", adminToken, gin.H{
		"content": "not json at all",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// And on edit as well
	path := "/admin/embeds/" + strconv.Itoa(int(created.Embed.ID))
	w = httpDo(env.router, "PATCH", path, adminToken, gin.H{
		"content": "not json at all",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httpDo(env.router, "PATCH", path, adminToken, gin.H{
		"content": `{"title":"Updated board"}`,
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestQuestEndpoints(t *testing.T) {
	env := newTestAPI(t)
	adminToken := signup(t, env, "keeper")
	makeAdmin(t, env, "keeper")
	playerToken := signup(t, env, "alice")
	account := addCharacter(t, env, playerToken, "kara")

	w := httpDo(env.router, "POST", "/admin/quests", adminToken, gin.H{
		"id":          7,
		"date":        "2026-09-01",
		"multi":       "3-5 players",
		"tier":        2,
		"reward":      "200g",
		"title":       "Clear the goblin cave",
		"description": "The cave north of town again.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate quest numbers are rejected
	w = httpDo(env.router, "POST", "/admin/quests", adminToken, gin.H{
		"id": 7, "date": "2026-09-02", "title": "Duplicate",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Sign the player's character up and read the quest back
	w = httpDo(env.router, "POST", "/admin/quests/7/assign", adminToken, gin.H{"character_id": account})
	require.Equal(t, http.StatusOK, w.Code)

	w = httpDo(env.router, "GET", "/admin/quests/7", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Quest domain.Quest `json:"quest"`
		Party []uint       `json:"party"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Clear the goblin cave", resp.Quest.Title)
	require.Equal(t, []uint{account}, resp.Party)

	// A status outside the board states is a caller mistake, not a crash
	w = httpDo(env.router, "PATCH", "/admin/quests/7", adminToken, gin.H{"status": 99})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Move it through the board and verify the status held
	w = httpDo(env.router, "PATCH", "/admin/quests/7", adminToken, gin.H{"status": domain.QuestInProgress})
	require.Equal(t, http.StatusOK, w.Code)
	w = httpDo(env.router, "GET", "/admin/quests/7", adminToken, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, domain.QuestInProgress, resp.Quest.Status)

	w = httpDo(env.router, "DELETE", "/admin/quests/7", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = httpDo(env.router, "GET", "/admin/quests/7", adminToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
