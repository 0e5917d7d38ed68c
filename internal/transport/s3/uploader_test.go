package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type mockPutObject struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (m *mockPutObject) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.input = params
	m.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestUpload(t *testing.T) {
	m := &mockPutObject{}
	u := NewUploader(m, Config{Bucket: "exports", Endpoint: "https://s3.example.com/"})

	url, err := u.Upload(context.Background(), "exports/a.txt", "text/plain", []byte("hello"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://s3.example.com/exports/exports/a.txt" {
		t.Errorf("url = %q", url)
	}
	if aws.ToString(m.input.Bucket) != "exports" || aws.ToString(m.input.Key) != "exports/a.txt" {
		t.Errorf("unexpected input: %+v", m.input)
	}
	if aws.ToString(m.input.ContentType) != "text/plain" || string(m.body) != "hello" {
		t.Errorf("content type %q body %q", aws.ToString(m.input.ContentType), m.body)
	}
}

func TestNewUploader_Links(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"public base", Config{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"}, "https://cdn.example.com/k"},
		{"aws default", Config{Bucket: "b", Region: "eu-west-1"}, "https://b.s3.eu-west-1.amazonaws.com/k"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := NewUploader(&mockPutObject{}, tc.cfg)
			got, err := u.Upload(context.Background(), "k", "text/plain", nil)
			if err != nil {
				t.Fatalf("Upload: %v", err)
			}
			if got != tc.want {
				t.Errorf("url = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUpload_Error(t *testing.T) {
	u := NewUploader(&mockPutObject{err: errors.New("denied")}, Config{Bucket: "b", Region: "us-east-1"})
	if _, err := u.Upload(context.Background(), "k", "text/plain", nil); err == nil {
		t.Fatal("expected error")
	}
}
