package ipfs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinFile(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/pinning/pinFileToIPFS", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "tomatoes.jpg", header.Filename)
		assert.Equal(t, "jpeg-bytes", string(content))

		json.NewEncoder(w).Encode(map[string]string{"IpfsHash": "bafybeiimagecid"})
	}))
	defer server.Close()

	store := NewPinataStore(Config{JWT: "test-jwt", APIBase: server.URL})
	cid, err := store.PinFile(context.Background(), "tomatoes.jpg", []byte("jpeg-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "bafybeiimagecid", cid)
	assert.Equal(t, "Bearer test-jwt", gotAuth)
}

func TestPinJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pinning/pinJSONToIPFS", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "pinataContent")
		meta := body["pinataMetadata"].(map[string]any)
		assert.Equal(t, "B-ABCD1234-metadata.json", meta["name"])

		json.NewEncoder(w).Encode(map[string]string{"IpfsHash": "bafkreimetadatacid"})
	}))
	defer server.Close()

	store := NewPinataStore(Config{JWT: "test-jwt", APIBase: server.URL})
	cid, err := store.PinJSON(context.Background(), "B-ABCD1234-metadata.json", map[string]string{"name": "Batch"})

	require.NoError(t, err)
	assert.Equal(t, "bafkreimetadatacid", cid)
}

func TestPin_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Invalid credentials"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	store := NewPinataStore(Config{JWT: "bad-jwt", APIBase: server.URL})
	_, err := store.PinFile(context.Background(), "x.jpg", []byte("x"))

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "401"))
}

func TestPin_EmptyHash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	store := NewPinataStore(Config{JWT: "test-jwt", APIBase: server.URL})
	_, err := store.PinJSON(context.Background(), "m.json", map[string]string{})

	assert.Error(t, err)
}

func TestGatewayURL(t *testing.T) {
	assert.Equal(t, "ipfs://bafy123", NewPinataStore(Config{}).GatewayURL("bafy123"))

	gw := NewPinataStore(Config{GatewayURL: "https://gateway.pinata.cloud/ipfs"})
	assert.Equal(t, "https://gateway.pinata.cloud/ipfs/bafy123", gw.GatewayURL("bafy123"))
}
