package publish

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/bindery/internal/errors"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{"s3://site/pages/index.html", Target{Bucket: "site", Key: "pages/index.html"}, false},
		{"out/index.html", Target{Key: "out/index.html"}, false},
		{"  s3://b/k ", Target{Bucket: "b", Key: "k"}, false},
		{"s3://bucket", Target{}, true},
		{"s3:///key", Target{}, true},
		{"s3://b/dir/", Target{}, true},
		{"", Target{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			if tt.wantErr {
				var be *errors.BindError
				if !stderrors.As(err, &be) || be.Code != "B501" {
					t.Fatalf("err = %v, want B501", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if got.IsS3() != (tt.want.Bucket != "") {
				t.Error("IsS3 mismatch")
			}
		})
	}
}

func TestS3Publish(t *testing.T) {
	fake := &fakeS3{}
	p := NewS3(fake, "site", "snapshots")

	loc, err := p.Publish(context.Background(), "index.html", "text/html; charset=utf-8", []byte("<p>hi</p>"))
	if err != nil {
		t.Fatal(err)
	}
	if loc != "s3://site/snapshots/index.html" {
		t.Errorf("location = %q", loc)
	}
	if aws.ToString(fake.in.Bucket) != "site" || aws.ToString(fake.in.Key) != "snapshots/index.html" {
		t.Errorf("bucket/key = %s/%s", aws.ToString(fake.in.Bucket), aws.ToString(fake.in.Key))
	}
	if aws.ToString(fake.in.ContentType) != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", aws.ToString(fake.in.ContentType))
	}
	if string(fake.body) != "<p>hi</p>" {
		t.Errorf("body = %q", fake.body)
	}
}

func TestS3PublishError(t *testing.T) {
	cause := stderrors.New("denied")
	p := NewS3(&fakeS3{err: cause}, "site", "")

	_, err := p.Publish(context.Background(), "a.html", "text/html", nil)
	if !stderrors.Is(err, cause) {
		t.Errorf("err = %v, want wrapped cause", err)
	}
	var be *errors.BindError
	if !stderrors.As(err, &be) || be.Code != "B500" {
		t.Errorf("code = %v", err)
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials(context.Background()); err == nil {
		t.Error("expected missing credentials error")
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials(context.Background())
	if err != nil || creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Errorf("creds = %+v, %v", creds, err)
	}
}

func TestNewClient(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	c := NewClient(ClientConfig{Endpoint: "http://localhost:9000"})
	o := c.Options()
	if o.Region != "eu-west-1" || !o.UsePathStyle || aws.ToString(o.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("options = region %q path-style %v endpoint %q", o.Region, o.UsePathStyle, aws.ToString(o.BaseEndpoint))
	}
}

func TestDirPublish(t *testing.T) {
	root := t.TempDir()
	p := NewDir(root)

	loc, err := p.Publish(context.Background(), "pages/index.html", "text/html", []byte("v1"))
	if err != nil {
		t.Fatal(err)
	}
	if loc != filepath.Join(root, "pages", "index.html") {
		t.Errorf("location = %q", loc)
	}
	if _, err := p.Publish(context.Background(), "pages/index.html", "text/html", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(loc)
	if err != nil || string(data) != "v2" {
		t.Errorf("content = %q, %v", data, err)
	}
	entries, _ := os.ReadDir(filepath.Join(root, "pages"))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Publish(ctx, "x.html", "", nil); !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want canceled", err)
	}
}
