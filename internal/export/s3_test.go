// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/clingen/pkg/types"
)

// fakeS3 records PutObject calls in memory.
type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
		f.types = map[string]string{}
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	u := NewUploader(fake, "exports")

	loc, err := u.Upload(context.Background(), "/lookups/2026.yaml", []byte("- gene: SHH\n"), ContentType("yaml"))
	require.NoError(t, err)
	assert.Equal(t, "s3://exports/lookups/2026.yaml", loc)
	assert.Equal(t, "- gene: SHH\n", string(fake.objects["exports/lookups/2026.yaml"]))
	assert.Equal(t, "application/yaml", fake.types["exports/lookups/2026.yaml"])
}

func TestUploadErrors(t *testing.T) {
	u := NewUploader(&fakeS3{err: errors.New("access denied")}, "exports")

	_, err := u.Upload(context.Background(), "a.json", []byte("{}"), "")
	assert.ErrorContains(t, err, "uploading s3://exports/a.json")
	assert.ErrorContains(t, err, "access denied")

	_, err = u.Upload(context.Background(), "/", nil, "")
	assert.ErrorContains(t, err, "object key is empty")
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", ContentType("json"))
	assert.Equal(t, "application/yaml", ContentType("yaml"))
	assert.Equal(t, "application/yaml", ContentType(""))
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), types.S3Config{})
	assert.ErrorIs(t, err, ErrNoBucket)
}

// recordingTransport answers every request with 200 and remembers it.
type recordingTransport struct {
	mu       sync.Mutex
	requests []*http.Request
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	rt.requests = append(rt.requests, req)
	rt.mu.Unlock()
	if req.Body != nil {
		io.Copy(io.Discard, req.Body)
		req.Body.Close()
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Etag": {`"etag123"`}},
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}, nil
}

func TestNewPathStyleEndpoint(t *testing.T) {
	rt := &recordingTransport{}
	u, err := New(context.Background(), types.S3Config{
		Bucket:          "exports",
		Endpoint:        "https://minio.local:9000",
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
	})
	require.NoError(t, err)
	assert.Equal(t, "exports", u.Bucket())

	loc, err := u.Upload(context.Background(), "history.yaml", []byte("[]\n"), ContentType("yaml"))
	require.NoError(t, err)
	assert.Equal(t, "s3://exports/history.yaml", loc)

	require.Len(t, rt.requests, 1)
	req := rt.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "minio.local:9000", req.URL.Host)
	assert.Equal(t, "/exports/history.yaml", req.URL.Path)
	assert.Contains(t, req.Header.Get("Authorization"), "AKIA")
}
