package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Power-Sh3ll/CIS440-Spectra/db"
	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"github.com/Power-Sh3ll/CIS440-Spectra/utils"
	"github.com/gin-gonic/gin"
)

type friendsResponse struct {
	Friends []struct {
		FriendEmail string `json:"friend_email"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
	} `json:"friends"`
	ReceivedRequests []struct {
		RequesterEmail string `json:"requester_email"`
	} `json:"receivedRequests"`
	SentRequests []struct {
		RecipientEmail string `json:"recipient_email"`
	} `json:"sentRequests"`
}

func listFriends(t *testing.T, r *gin.Engine, token string) friendsResponse {
	t.Helper()

	w := doRequest(t, r, http.MethodGet, "/api/friends", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list friends: status %d, body %s", w.Code, w.Body.String())
	}

	var out friendsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode friends: %v", err)
	}
	return out
}

func TestSendFriendRequestToSelf(t *testing.T) {
	r := setupRouter(t)
	token := signup(t, r, "alice@x.com", "Alice", "Anders")

	w := doRequest(t, r, http.MethodPost, "/api/friends/request", token, gin.H{"friendEmail": "alice@x.com"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("self request: status %d, want 400", w.Code)
	}
}

func TestSendFriendRequestToUnknownUser(t *testing.T) {
	r := setupRouter(t)
	token := signup(t, r, "alice@x.com", "Alice", "Anders")

	w := doRequest(t, r, http.MethodPost, "/api/friends/request", token, gin.H{"friendEmail": "ghost@x.com"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown target: status %d, want 404", w.Code)
	}
}

// At most one edge per unordered pair, checked in both directions and for
// any status.
func TestSendFriendRequestDuplicateEdge(t *testing.T) {
	r := setupRouter(t)
	tokenA := signup(t, r, "alice@x.com", "Alice", "Anders")
	tokenB := signup(t, r, "bob@x.com", "Bob", "Baker")

	w := doRequest(t, r, http.MethodPost, "/api/friends/request", tokenA, gin.H{"friendEmail": "bob@x.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("first request: status %d", w.Code)
	}

	// Same direction again.
	w = doRequest(t, r, http.MethodPost, "/api/friends/request", tokenA, gin.H{"friendEmail": "bob@x.com"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate same direction: status %d, want 409", w.Code)
	}

	// Reverse direction while pending.
	w = doRequest(t, r, http.MethodPost, "/api/friends/request", tokenB, gin.H{"friendEmail": "alice@x.com"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate reverse direction: status %d, want 409", w.Code)
	}

	// Accepted edges block new requests too.
	w = doRequest(t, r, http.MethodPost, "/api/friends/accept", tokenB, gin.H{"requesterEmail": "alice@x.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("accept: status %d", w.Code)
	}
	w = doRequest(t, r, http.MethodPost, "/api/friends/request", tokenB, gin.H{"friendEmail": "alice@x.com"})
	if w.Code != http.StatusConflict {
		t.Errorf("request over accepted edge: status %d, want 409", w.Code)
	}
}

// A writer that raced past the existence check and inserts the reverse
// direction must still land on the unique pair index.
func TestFriendRequestReverseInsertHitsPairIndex(t *testing.T) {
	r := setupRouter(t)
	tokenA := signup(t, r, "alice@x.com", "Alice", "Anders")
	signup(t, r, "bob@x.com", "Bob", "Baker")

	w := doRequest(t, r, http.MethodPost, "/api/friends/request", tokenA, gin.H{"friendEmail": "bob@x.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("request: status %d", w.Code)
	}

	reverse := models.Friendship{
		UserEmail:   "bob@x.com",
		FriendEmail: "alice@x.com",
		RequestedBy: "bob@x.com",
		Status:      models.StatusPending,
	}
	err := db.DB.Create(&reverse).Error
	if err == nil {
		t.Fatal("reverse-direction insert succeeded, pair index missing")
	}
	if !utils.IsDuplicateKey(err) {
		t.Fatalf("reverse insert failed with %v, want a unique violation", err)
	}

	var count int64
	db.DB.Model(&models.Friendship{}).Count(&count)
	if count != 1 {
		t.Errorf("friendship rows = %d, want 1", count)
	}
}

func TestAcceptNonexistentRequest(t *testing.T) {
	r := setupRouter(t)
	tokenA := signup(t, r, "alice@x.com", "Alice", "Anders")
	signup(t, r, "bob@x.com", "Bob", "Baker")

	w := doRequest(t, r, http.MethodPost, "/api/friends/accept", tokenA, gin.H{"requesterEmail": "bob@x.com"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("accept without pending edge: status %d, want 404", w.Code)
	}
}

// Accept only works for the exact requester -> recipient direction: the
// requester cannot accept their own request.
func TestAcceptIsDirectionSpecific(t *testing.T) {
	r := setupRouter(t)
	tokenA := signup(t, r, "alice@x.com", "Alice", "Anders")
	signup(t, r, "bob@x.com", "Bob", "Baker")

	w := doRequest(t, r, http.MethodPost, "/api/friends/request", tokenA, gin.H{"friendEmail": "bob@x.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("request: status %d", w.Code)
	}

	w = doRequest(t, r, http.MethodPost, "/api/friends/accept", tokenA, gin.H{"requesterEmail": "bob@x.com"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("requester accepting own request: status %d, want 404", w.Code)
	}
}

func TestFriendListsPartition(t *testing.T) {
	r := setupRouter(t)
	tokenA := signup(t, r, "alice@x.com", "Alice", "Anders")
	tokenB := signup(t, r, "bob@x.com", "Bob", "Baker")
	tokenC := signup(t, r, "carol@x.com", "Carol", "Clark")

	// A <-> B accepted; C -> A pending.
	befriend(t, r, tokenA, "alice@x.com", tokenB, "bob@x.com")
	w := doRequest(t, r, http.MethodPost, "/api/friends/request", tokenC, gin.H{"friendEmail": "alice@x.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("request C->A: status %d", w.Code)
	}

	got := listFriends(t, r, tokenA)
	if len(got.Friends) != 1 || got.Friends[0].FriendEmail != "bob@x.com" {
		t.Errorf("friends = %+v, want just bob", got.Friends)
	}
	if got.Friends[0].FirstName != "Bob" || got.Friends[0].LastName != "Baker" {
		t.Errorf("friend names not resolved: %+v", got.Friends[0])
	}
	if len(got.ReceivedRequests) != 1 || got.ReceivedRequests[0].RequesterEmail != "carol@x.com" {
		t.Errorf("receivedRequests = %+v, want carol", got.ReceivedRequests)
	}
	if len(got.SentRequests) != 0 {
		t.Errorf("sentRequests = %+v, want empty", got.SentRequests)
	}

	// B sees the accepted edge from the other side.
	gotB := listFriends(t, r, tokenB)
	if len(gotB.Friends) != 1 || gotB.Friends[0].FriendEmail != "alice@x.com" {
		t.Errorf("bob's friends = %+v, want alice", gotB.Friends)
	}

	// C sees an outbound pending request.
	gotC := listFriends(t, r, tokenC)
	if len(gotC.SentRequests) != 1 || gotC.SentRequests[0].RecipientEmail != "alice@x.com" {
		t.Errorf("carol's sentRequests = %+v, want alice", gotC.SentRequests)
	}
}

// Decline removes an inbound pending edge; the requester's cancel removes an
// outbound one. Each fails in the wrong direction.
func TestDeclineAndCancelDirections(t *testing.T) {
	r := setupRouter(t)
	tokenA := signup(t, r, "alice@x.com", "Alice", "Anders")
	tokenB := signup(t, r, "bob@x.com", "Bob", "Baker")

	w := doRequest(t, r, http.MethodPost, "/api/friends/request", tokenA, gin.H{"friendEmail": "bob@x.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("request: status %d", w.Code)
	}

	// A (the requester) cannot decline what A sent.
	w = doRequest(t, r, http.MethodPost, "/api/friends/decline", tokenA, gin.H{"requesterEmail": "bob@x.com"})
	if w.Code != http.StatusNotFound {
		t.Errorf("requester declining: status %d, want 404", w.Code)
	}

	// B declines the inbound request.
	w = doRequest(t, r, http.MethodPost, "/api/friends/decline", tokenB, gin.H{"requesterEmail": "alice@x.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("decline: status %d", w.Code)
	}

	// New request, cancelled by the sender this time.
	w = doRequest(t, r, http.MethodPost, "/api/friends/request", tokenA, gin.H{"friendEmail": "bob@x.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("re-request after decline: status %d", w.Code)
	}
	w = doRequest(t, r, http.MethodDelete, "/api/friends/cancel", tokenA, gin.H{"friendEmail": "bob@x.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: status %d", w.Code)
	}

	if got := listFriends(t, r, tokenB); len(got.ReceivedRequests) != 0 {
		t.Errorf("receivedRequests after cancel = %+v, want empty", got.ReceivedRequests)
	}
}

func TestRemoveFriendEitherDirection(t *testing.T) {
	r := setupRouter(t)
	tokenA := signup(t, r, "alice@x.com", "Alice", "Anders")
	tokenB := signup(t, r, "bob@x.com", "Bob", "Baker")

	befriend(t, r, tokenA, "alice@x.com", tokenB, "bob@x.com")

	// The recipient of the original request removes the friendship.
	w := doRequest(t, r, http.MethodDelete, "/api/friends/remove", tokenB, gin.H{"friendEmail": "alice@x.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("remove: status %d", w.Code)
	}

	if got := listFriends(t, r, tokenA); len(got.Friends) != 0 {
		t.Errorf("friends after remove = %+v, want empty", got.Friends)
	}

	w = doRequest(t, r, http.MethodDelete, "/api/friends/remove", tokenB, gin.H{"friendEmail": "alice@x.com"})
	if w.Code != http.StatusNotFound {
		t.Errorf("second remove: status %d, want 404", w.Code)
	}
}

func TestSearchQueryTooShort(t *testing.T) {
	r := setupRouter(t)
	token := signup(t, r, "alice@x.com", "Alice", "Anders")

	w := doRequest(t, r, http.MethodGet, "/api/users/search?q=a", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("one-char query: status %d, want 400", w.Code)
	}
}

func TestSearchAnnotatesRelationshipStatus(t *testing.T) {
	r := setupRouter(t)
	tokenA := signup(t, r, "me@x.com", "Mel", "Major")
	tokenB := signup(t, r, "alice@x.com", "Alice", "Anders")
	signup(t, r, "alina@x.com", "Alina", "Albright")

	search := func(token, q string) map[string]string {
		w := doRequest(t, r, http.MethodGet, "/api/users/search?q="+q, token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("search %q: status %d, body %s", q, w.Code, w.Body.String())
		}
		var out struct {
			Users []struct {
				Email              string `json:"email"`
				RelationshipStatus string `json:"relationship_status"`
			} `json:"users"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode search: %v", err)
		}
		byEmail := map[string]string{}
		for _, u := range out.Users {
			byEmail[u.Email] = u.RelationshipStatus
		}
		return byEmail
	}

	got := search(tokenA, "ali")
	if got["alice@x.com"] != "none" || got["alina@x.com"] != "none" {
		t.Errorf("fresh users should be status none: %v", got)
	}
	if _, ok := got["me@x.com"]; ok {
		t.Errorf("search must exclude the caller")
	}

	w := doRequest(t, r, http.MethodPost, "/api/friends/request", tokenA, gin.H{"friendEmail": "alice@x.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("request: status %d", w.Code)
	}

	if got := search(tokenA, "ali"); got["alice@x.com"] != "sent" {
		t.Errorf("requester sees %q, want sent", got["alice@x.com"])
	}
	if got := search(tokenB, "me@"); got["me@x.com"] != "received" {
		t.Errorf("recipient sees %q, want received", got["me@x.com"])
	}

	w = doRequest(t, r, http.MethodPost, "/api/friends/accept", tokenB, gin.H{"requesterEmail": "me@x.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("accept: status %d", w.Code)
	}

	if got := search(tokenA, "ali"); got["alice@x.com"] != "friends" {
		t.Errorf("after accept status %q, want friends", got["alice@x.com"])
	}
}

func TestSearchRanksExactEmailFirst(t *testing.T) {
	r := setupRouter(t)
	token := signup(t, r, "me@x.com", "Mel", "Major")
	signup(t, r, "al@x.com", "Alan", "Smith")
	signup(t, r, "al@x.com.org", "Albert", "Stone")

	w := doRequest(t, r, http.MethodGet, "/api/users/search?q=al@x.com", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search: status %d", w.Code)
	}

	var out struct {
		Users []struct {
			Email string `json:"email"`
		} `json:"users"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if len(out.Users) < 2 || out.Users[0].Email != "al@x.com" {
		t.Errorf("exact email match not ranked first: %+v", out.Users)
	}
}

func TestListUserEmails(t *testing.T) {
	r := setupRouter(t)
	token := signup(t, r, "alice@x.com", "Alice", "Anders")
	signup(t, r, "bob@x.com", "Bob", "Baker")

	w := doRequest(t, r, http.MethodGet, "/api/users", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list users: status %d", w.Code)
	}

	var out struct {
		Emails []string `json:"emails"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Emails) != 2 {
		t.Errorf("emails = %v, want both users", out.Emails)
	}
}
