package apollo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

// listTestServer fakes the per-entity contact and account endpoints and
// records every label_names payload it receives, keyed by entity ID.
type listTestServer struct {
	*httptest.Server

	mu       sync.Mutex
	missing  map[string]bool
	failPut  map[string]bool
	puts     map[string][][]string
	getCalls map[string]int
}

func newListTestServer(t *testing.T) *listTestServer {
	t.Helper()
	s := &listTestServer{
		missing:  map[string]bool{},
		failPut:  map[string]bool{},
		puts:     map[string][][]string{},
		getCalls: map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *listTestServer) handle(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		http.Error(w, "unexpected path "+r.URL.Path, http.StatusBadRequest)
		return
	}
	resource, id := parts[0], parts[1]
	key := map[string]string{"contacts": "contact", "accounts": "account"}[resource]
	if key == "" {
		http.Error(w, "unexpected resource "+resource, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.missing[id] {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getCalls[id]++
	case http.MethodPut:
		if s.failPut[id] {
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		raw, ok := body["label_names"].([]any)
		if !ok {
			http.Error(w, "missing label_names", http.StatusBadRequest)
			return
		}
		labels := make([]string, 0, len(raw))
		for _, v := range raw {
			labels = append(labels, v.(string))
		}
		s.puts[id] = append(s.puts[id], labels)
	default:
		http.Error(w, "unexpected method "+r.Method, http.StatusMethodNotAllowed)
		return
	}

	fmt.Fprintf(w, `{%q: {"id": %q, "name": "Entity %s"}}`, key, id, id)
}

func (s *listTestServer) lastPut(id string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	puts := s.puts[id]
	if len(puts) == 0 {
		return nil, false
	}
	return puts[len(puts)-1], true
}

func newListTestClient(s *listTestServer) *Client {
	return NewClient(ClientConfig{APIKey: "test-key", BaseURL: s.URL})
}

func TestContactAddToListCachedEntitySkipsGet(t *testing.T) {
	srv := newListTestServer(t)
	client := newListTestClient(srv)
	client.LabelCache().Set("contact_1", []string{"Existing List"})

	res, err := client.ContactAddToList(context.Background(), []string{"contact_1"}, "New List")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.FoundIDs, []string{"contact_1"}) {
		t.Fatalf("found = %v", res.FoundIDs)
	}
	if srv.getCalls["contact_1"] != 0 {
		t.Fatalf("expected no GET for cached entity, got %d", srv.getCalls["contact_1"])
	}
	labels, ok := srv.lastPut("contact_1")
	if !ok {
		t.Fatal("no PUT recorded")
	}
	want := []string{"Existing List", "New List"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("PUT label_names = %v, want %v", labels, want)
	}
}

func TestContactAddToListUncachedEntityConfirmedByGet(t *testing.T) {
	srv := newListTestServer(t)
	client := newListTestClient(srv)

	res, err := client.ContactAddToList(context.Background(), []string{"contact_9"}, "Warm Leads")
	if err != nil {
		t.Fatal(err)
	}
	if srv.getCalls["contact_9"] != 1 {
		t.Fatalf("GET calls = %d, want 1", srv.getCalls["contact_9"])
	}
	labels, _ := srv.lastPut("contact_9")
	if !reflect.DeepEqual(labels, []string{"Warm Leads"}) {
		t.Fatalf("PUT label_names = %v", labels)
	}
	if len(res.UpdatedEntities) != 1 {
		t.Fatalf("updated entities = %d", len(res.UpdatedEntities))
	}
	got, _ := res.UpdatedEntities[0]["label_names"].([]string)
	if !reflect.DeepEqual(got, []string{"Warm Leads"}) {
		t.Fatalf("annotated label_names = %v", got)
	}

	// The written set is now cached; a second op must not GET again.
	if _, err := client.ContactAddToList(context.Background(), []string{"contact_9"}, "Hot Leads"); err != nil {
		t.Fatal(err)
	}
	if srv.getCalls["contact_9"] != 1 {
		t.Fatalf("GET calls after second op = %d, want 1", srv.getCalls["contact_9"])
	}
	labels, _ = srv.lastPut("contact_9")
	if !reflect.DeepEqual(labels, []string{"Hot Leads", "Warm Leads"}) {
		t.Fatalf("second PUT label_names = %v", labels)
	}
}

func TestContactAddToListUnknownIDLandsInNotFound(t *testing.T) {
	srv := newListTestServer(t)
	srv.missing["ghost_id"] = true
	client := newListTestClient(srv)
	client.LabelCache().Set("acct_1", []string{"Some List"})

	res, err := client.ContactAddToList(context.Background(), []string{"acct_1", "ghost_id"}, "Target List")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.FoundIDs, []string{"acct_1"}) {
		t.Fatalf("found = %v", res.FoundIDs)
	}
	if !reflect.DeepEqual(res.NotFoundIDs, []string{"ghost_id"}) {
		t.Fatalf("not found = %v", res.NotFoundIDs)
	}
	if res.TotalRequested != 2 {
		t.Fatalf("total requested = %d", res.TotalRequested)
	}
	if got := len(res.FoundIDs) + len(res.NotFoundIDs); got != res.TotalRequested {
		t.Fatalf("partition broken: %d found+notfound vs %d requested", got, res.TotalRequested)
	}
}

func TestContactAddToListAlreadyMemberIsIdempotent(t *testing.T) {
	srv := newListTestServer(t)
	client := newListTestClient(srv)
	client.LabelCache().Set("contact_1", []string{"Warm Leads", "Other List"})

	res, err := client.ContactAddToList(context.Background(), []string{"contact_1"}, "Warm Leads")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.FoundIDs, []string{"contact_1"}) {
		t.Fatalf("found = %v", res.FoundIDs)
	}
	labels, _ := srv.lastPut("contact_1")
	if !reflect.DeepEqual(labels, []string{"Other List", "Warm Leads"}) {
		t.Fatalf("PUT label_names = %v", labels)
	}
}

func TestContactRemoveFromListNotAMemberIsNoOpSuccess(t *testing.T) {
	srv := newListTestServer(t)
	client := newListTestClient(srv)
	client.LabelCache().Set("contact_1", []string{"Other List"})

	res, err := client.ContactRemoveFromList(context.Background(), []string{"contact_1"}, "Some List")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.FoundIDs, []string{"contact_1"}) {
		t.Fatalf("found = %v", res.FoundIDs)
	}
	labels, _ := srv.lastPut("contact_1")
	if !reflect.DeepEqual(labels, []string{"Other List"}) {
		t.Fatalf("PUT label_names = %v", labels)
	}
}

func TestContactRemoveFromListLastLabelSendsEmptyArray(t *testing.T) {
	srv := newListTestServer(t)
	client := newListTestClient(srv)
	client.LabelCache().Set("contact_1", []string{"Only List"})

	if _, err := client.ContactRemoveFromList(context.Background(), []string{"contact_1"}, "Only List"); err != nil {
		t.Fatal(err)
	}
	labels, ok := srv.lastPut("contact_1")
	if !ok {
		t.Fatal("no PUT recorded; clearing the last label must still send label_names")
	}
	if len(labels) != 0 {
		t.Fatalf("PUT label_names = %v, want []", labels)
	}
	cached, _ := client.LabelCache().Get("contact_1")
	if len(cached) != 0 {
		t.Fatalf("cache after clear = %v", cached)
	}
}

func TestApplyListOpCapsInput(t *testing.T) {
	srv := newListTestServer(t)
	client := newListTestClient(srv)

	ids := make([]string, 0, MaxListOpIDs+5)
	for i := 0; i < MaxListOpIDs+5; i++ {
		ids = append(ids, fmt.Sprintf("contact_%d", i))
	}
	res, err := client.ContactAddToList(context.Background(), ids, "Big List")
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalRequested != MaxListOpIDs {
		t.Fatalf("total requested = %d, want %d", res.TotalRequested, MaxListOpIDs)
	}
	if len(res.FoundIDs) != MaxListOpIDs {
		t.Fatalf("found = %d", len(res.FoundIDs))
	}
	if _, ok := srv.lastPut(fmt.Sprintf("contact_%d", MaxListOpIDs)); ok {
		t.Fatal("entity past the cap was updated")
	}
}

func TestApplyListOpUpdateFailureCollapsesIntoNotFound(t *testing.T) {
	srv := newListTestServer(t)
	srv.failPut["contact_2"] = true
	client := newListTestClient(srv)
	client.LabelCache().Set("contact_1", []string{"A"})
	client.LabelCache().Set("contact_2", []string{"B"})

	res, err := client.ContactAddToList(context.Background(), []string{"contact_1", "contact_2"}, "C")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.FoundIDs, []string{"contact_1"}) {
		t.Fatalf("found = %v", res.FoundIDs)
	}
	if !reflect.DeepEqual(res.NotFoundIDs, []string{"contact_2"}) {
		t.Fatalf("not found = %v", res.NotFoundIDs)
	}
	// The failed write must not poison the cache.
	cached, _ := client.LabelCache().Get("contact_2")
	if !reflect.DeepEqual(cached, []string{"B"}) {
		t.Fatalf("cache after failed write = %v", cached)
	}
}

func TestApplyListOpCancelledContextReturnsPartialResult(t *testing.T) {
	srv := newListTestServer(t)
	client := newListTestClient(srv)
	client.LabelCache().Set("contact_1", []string{"A"})
	client.LabelCache().Set("contact_2", []string{"A"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := client.ContactAddToList(ctx, []string{"contact_1", "contact_2"}, "B")
	if err == nil {
		t.Fatal("expected context error")
	}
	if res == nil {
		t.Fatal("expected partial result alongside the error")
	}
	if res.TotalRequested != 2 {
		t.Fatalf("total requested = %d", res.TotalRequested)
	}
}

func TestAccountAddToListUsesAccountEndpoints(t *testing.T) {
	srv := newListTestServer(t)
	client := newListTestClient(srv)

	res, err := client.AccountAddToList(context.Background(), []string{"account_1"}, "Key Accounts")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.FoundIDs, []string{"account_1"}) {
		t.Fatalf("found = %v", res.FoundIDs)
	}
	labels, _ := srv.lastPut("account_1")
	if !reflect.DeepEqual(labels, []string{"Key Accounts"}) {
		t.Fatalf("PUT label_names = %v", labels)
	}
}

func TestAccountRemoveFromListConcurrentOpsStayConsistent(t *testing.T) {
	srv := newListTestServer(t)
	client := newListTestClient(srv)
	client.LabelCache().Set("account_1", []string{"List A", "List B"})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.AccountRemoveFromList(context.Background(), []string{"account_1"}, "List A")
			if err != nil {
				t.Error(err)
			}
		}()
	}
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent ops did not finish")
	}

	cached, _ := client.LabelCache().Get("account_1")
	if !reflect.DeepEqual(cached, []string{"List B"}) {
		t.Fatalf("cache after concurrent removes = %v", cached)
	}
}
