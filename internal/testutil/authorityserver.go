package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is the lifetime of tokens issued by AuthorityServer.
const tokenTTL = time.Hour

type serverTask struct {
	ID        string `json:"_id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Owner     string `json:"owner"`
}

// AuthorityServer is an HTTP implementation of the task tracker API for
// tests. Tasks are returned with document-style "_id" fields and errors
// carry a "message" field.
type AuthorityServer struct {
	*httptest.Server

	engine *gin.Engine
	secret []byte

	mu        sync.Mutex
	passwords map[string]string
	tasks     []serverTask
	nextID    int
	down      bool
	requests  []*http.Request
}

// NewAuthorityServer starts a server; it is closed by t.Cleanup when t is
// non-nil.
func NewAuthorityServer(t interface{ Cleanup(func()) }) *AuthorityServer {
	gin.SetMode(gin.TestMode)

	s := &AuthorityServer{
		engine:    gin.New(),
		secret:    []byte("test-secret"),
		passwords: make(map[string]string),
	}
	s.engine.Use(gin.Recovery(), s.record)
	s.registerRoutes()

	s.Server = httptest.NewServer(s.engine)
	if t != nil {
		t.Cleanup(s.Close)
	}
	return s
}

func (s *AuthorityServer) registerRoutes() {
	auth := s.engine.Group("/auth")
	{
		auth.POST("/signup", s.handleSignup)
		auth.POST("/login", s.handleLogin)
	}

	tasks := s.engine.Group("/tasks", s.requireDown, s.requireAuth)
	{
		tasks.GET("", s.handleListTasks)
		tasks.POST("", s.handleCreateTask)
		tasks.PATCH("/:id/toggle", s.handleToggleTask)
	}
}

// SetDown makes every /tasks route answer 503 while down is true.
func (s *AuthorityServer) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

// AddUser registers an account.
func (s *AuthorityServer) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passwords[username] = password
}

// AddTask stores a task for owner and returns its id.
func (s *AuthorityServer) AddTask(owner, text string, completed bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(owner, text, completed).ID
}

func (s *AuthorityServer) addLocked(owner, text string, completed bool) serverTask {
	s.nextID++
	task := serverTask{
		ID:        fmt.Sprintf("%024x", s.nextID),
		Text:      text,
		Completed: completed,
		Owner:     owner,
	}
	s.tasks = append(s.tasks, task)
	return task
}

// Requests returns copies of the received requests' method, path and headers.
func (s *AuthorityServer) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

// IssueToken signs a token for username with the given expiry.
func (s *AuthorityServer) IssueToken(username string, expires time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *AuthorityServer) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, c.Request.Clone(c.Request.Context()))
	s.mu.Unlock()
	c.Next()
}

func (s *AuthorityServer) requireDown(c *gin.Context) {
	s.mu.Lock()
	down := s.down
	s.mu.Unlock()
	if down {
		abort(c, http.StatusServiceUnavailable, "Service Unavailable")
		return
	}
	c.Next()
}

func (s *AuthorityServer) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		abort(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		abort(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	c.Set("username", claims.Subject)
	c.Next()
}

func abort(c *gin.Context, status int, message any) {
	c.AbortWithStatusJSON(status, gin.H{"statusCode": status, "message": message})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *AuthorityServer) handleSignup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	var problems []string
	if req.Username == "" {
		problems = append(problems, "username should not be empty")
	}
	if len(req.Password) < 6 {
		problems = append(problems, "password must be longer than or equal to 6 characters")
	}
	if len(problems) > 0 {
		abort(c, http.StatusBadRequest, problems)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.passwords[req.Username]; exists {
		abort(c, http.StatusConflict, "Username already exists")
		return
	}
	s.passwords[req.Username] = req.Password
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

func (s *AuthorityServer) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	pw, ok := s.passwords[req.Username]
	s.mu.Unlock()
	if !ok || pw != req.Password {
		abort(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": s.IssueToken(req.Username, time.Now().Add(tokenTTL))})
}

func (s *AuthorityServer) handleListTasks(c *gin.Context) {
	owner := c.GetString("username")

	s.mu.Lock()
	defer s.mu.Unlock()
	result := []serverTask{}
	for _, t := range s.tasks {
		if t.Owner == owner {
			result = append(result, t)
		}
	}
	c.JSON(http.StatusOK, result)
}

func (s *AuthorityServer) handleCreateTask(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		abort(c, http.StatusBadRequest, []string{"text should not be empty"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusCreated, s.addLocked(c.GetString("username"), req.Text, false))
}

func (s *AuthorityServer) handleToggleTask(c *gin.Context) {
	id := c.Param("id")
	owner := c.GetString("username")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id && t.Owner == owner {
			s.tasks[i].Completed = !t.Completed
			c.JSON(http.StatusOK, s.tasks[i])
			return
		}
	}
	abort(c, http.StatusNotFound, "Task not found")
}
