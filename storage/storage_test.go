package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		size    int64
		wantErr string
	}{
		{"png", "passport.png", 1024, ""},
		{"upper case jpg", "ID.JPG", 1024, ""},
		{"jpeg at limit", "scan.jpeg", MaxDocumentSize, ""},
		{"pdf rejected", "statement.pdf", 10, "File statement.pdf not allowed. Only JPG, JPEG, PNG allowed."},
		{"too large", "big.png", MaxDocumentSize + 1, "File big.png exceeds 5MB limit"},
		{"no name", "", 10, "Document file name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.file, tt.size)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantErr, vErr.Message)
		})
	}
}

func TestUniqueName(t *testing.T) {
	a := UniqueName("../../etc/passport.png")
	b := UniqueName("passport.png")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_passport.png"))
	assert.Len(t, strings.SplitN(a, "_", 2)[0], 32)
	assert.NotContains(t, a, "/")
}

func TestLocalStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Save(ctx, "abc_id.png", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc_id.png"), ref)

	data, err := os.ReadFile(ref)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = store.Save(ctx, "abc_id.png", "image/png", strings.NewReader("again"), 5)
	assert.Error(t, err, "existing files are never overwritten")

	require.NoError(t, store.Delete(ctx, ref))
	assert.NoFileExists(t, ref)
	assert.NoError(t, store.Delete(ctx, ref))
}

type fakeS3 struct {
	objects map[string]string
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}}
	store := &S3Store{client: fake, bucket: "kyc-docs"}
	ctx := context.Background()

	ref, err := store.Save(ctx, "abc_id.png", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)
	assert.Equal(t, "s3://kyc-docs/documents/abc_id.png", ref)
	assert.Equal(t, "png-bytes", fake.objects["documents/abc_id.png"])

	require.NoError(t, store.Delete(ctx, ref))
	assert.Empty(t, fake.objects)

	fake.putErr = errors.New("access denied")
	_, err = store.Save(ctx, "x.png", "image/png", strings.NewReader(""), 0)
	assert.Error(t, err)
}

func TestS3Store_PlainHTTPEndpoint(t *testing.T) {
	var (
		mu       sync.Mutex
		received = map[string]string{}
		deleted  []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			received[r.URL.Path] = string(body)
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			deleted = append(deleted, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	store, err := NewS3Store(ctx, S3Config{
		Bucket:    "kyc-docs",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "minio",
		SecretKey: "minio-secret",
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "passport.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	ref, err := store.Save(ctx, "abc_passport.png", "image/png", f, 9)
	require.NoError(t, err)
	assert.Equal(t, "s3://kyc-docs/documents/abc_passport.png", ref)

	mu.Lock()
	assert.Contains(t, received["/kyc-docs/documents/abc_passport.png"], "png-bytes")
	mu.Unlock()

	require.NoError(t, store.Delete(ctx, ref))
	mu.Lock()
	assert.Equal(t, []string{"/kyc-docs/documents/abc_passport.png"}, deleted)
	mu.Unlock()
}

func TestS3Store_RejectsOversizedBody(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}}
	store := &S3Store{client: fake, bucket: "kyc-docs"}

	_, err := store.Save(context.Background(), "big.png", "image/png", strings.NewReader(""), MaxDocumentSize+1)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, fake.objects)
}
