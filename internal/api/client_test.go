package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFolderContentsDecodesMixedKinds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/folders/root/contents" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %s", got)
		}
		if got := r.URL.Query().Get("cursor"); got != "c1" {
			t.Errorf("cursor = %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{"kind":"folder","id":"f1","name":"Docs"},
				{"kind":"file","id":"x1","name":"a.txt","size":10,"category":"document"},
				{"kind":"hologram","id":"h1"}
			],
			"nextCursor": "c2"
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	page, err := c.FolderContents(context.Background(), "root", 50, "c1")
	if err != nil {
		t.Fatalf("FolderContents: %v", err)
	}
	if page.NextCursor != "c2" {
		t.Errorf("nextCursor = %q", page.NextCursor)
	}
	if len(page.Items) != 3 {
		t.Fatalf("items = %d", len(page.Items))
	}
	if page.Items[0].Folder == nil || page.Items[0].Folder.Name != "Docs" {
		t.Errorf("item 0 = %+v", page.Items[0])
	}
	if page.Items[1].File == nil || page.Items[1].File.Size != 10 {
		t.Errorf("item 1 = %+v", page.Items[1])
	}
	if page.Items[2].File != nil || page.Items[2].Folder != nil {
		t.Error("unknown kind must decode to neither pointer")
	}
}

func TestCreateFolderConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["name"] != "Docs" {
			t.Errorf("name = %v", body["name"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Folder already exists"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.CreateFolder(context.Background(), "Docs", "", false)
	conflict, ok := err.(*ConflictError)
	if !ok {
		t.Fatalf("err = %T %v, want *ConflictError", err, err)
	}
	if conflict.Message != "Folder already exists" {
		t.Errorf("message = %q", conflict.Message)
	}
}

func TestAuthHeaderApplied(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":"f1","name":"Docs","kind":"folder"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.SetAuthToken("tok123")
	if _, err := c.Folder(context.Background(), "f1"); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestFlatFilesQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category") != "picture" || q.Get("starred") != "true" {
			t.Errorf("query = %v", q)
		}
		if q.Get("deleted") != "" {
			t.Error("unset filters must not be sent")
		}
		w.Write([]byte(`{"items":[{"id":"p1","kind":"file"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	page, err := c.FlatFiles(context.Background(), FlatQuery{Category: CategoryPicture, Starred: true}, 50, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.NextCursor != "" {
		t.Errorf("page = %+v", page)
	}
}

func TestSearchDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "tax" || q.Get("limit") != "10" || q.Get("sort") != "updated" || q.Get("order") != "desc" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`[{"id":"s1","kind":"file"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	files, err := c.Search(context.Background(), SearchQuery{Query: "tax"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].ID != "s1" {
		t.Errorf("files = %v", files)
	}
}

func TestStatusErrorCarriesBodyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database down"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Folder(context.Background(), "f1")
	st, ok := err.(*StatusError)
	if !ok {
		t.Fatalf("err = %T", err)
	}
	if st.Code != 500 || st.Message != "database down" {
		t.Errorf("status error = %+v", st)
	}
}
