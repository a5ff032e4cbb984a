// Package download fetches the WebDriver binaries a test run needs.
package download

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/blang/semver"
	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// File describes how to download a file from the Web.
type File struct {
	URL  string
	Name string
	// Hash is the hex digest of the file. Empty skips verification.
	Hash string
	// HashType is md5, sha1 or sha256. The default is sha256.
	HashType string
	// Rename moves Rename[0] to Rename[1] after extraction, both relative
	// to the download directory.
	Rename []string
	// Version of the binary, when known.
	Version string
}

// Path returns where the file is stored in directory.
func (f File) Path(directory string) string {
	return filepath.Join(directory, f.Name)
}

const (
	chromiumBucket     = "chromium-browser-snapshots"
	chromiumPrefix     = "Linux_x64"
	chromeDriverObject = "chromedriver_linux64.zip"
)

// MinGeckodriver is the oldest geckodriver release GeckodriverFile accepts.
var MinGeckodriver = semver.MustParse("0.26.0")

var geckodriverAsset = regexp.MustCompile(`^geckodriver-v[0-9.]+-linux64\.tar\.gz$`)

// ChromeDriverFile describes the chromedriver of the given Chromium snapshot
// build. An empty build means the latest one. Without opts the bucket is
// read anonymously.
func ChromeDriverFile(ctx context.Context, build string, opts ...option.ClientOption) (File, error) {
	if len(opts) == 0 {
		opts = []option.ClientOption{option.WithHTTPClient(http.DefaultClient)}
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return File{}, fmt.Errorf("cannot create a storage client for downloading chromedriver: %w", err)
	}
	defer client.Close()

	gcsPath := "gs://" + chromiumBucket + "/"
	bkt := client.Bucket(chromiumBucket)
	if build == "" {
		lastChange := path.Join(chromiumPrefix, "LAST_CHANGE")
		r, err := bkt.Object(lastChange).NewReader(ctx)
		if err != nil {
			return File{}, fmt.Errorf("cannot create a reader for %s%s: %w", gcsPath, lastChange, err)
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return File{}, fmt.Errorf("cannot read from %s%s: %w", gcsPath, lastChange, err)
		}
		build = strings.TrimSpace(string(data))
	}

	object := path.Join(chromiumPrefix, build, chromeDriverObject)
	attrs, err := bkt.Object(object).Attrs(ctx)
	if err != nil {
		return File{}, fmt.Errorf("cannot get the attributes of %s%s: %w", gcsPath, object, err)
	}
	return File{
		URL:      attrs.MediaLink,
		Name:     "chromedriver.zip",
		Hash:     hex.EncodeToString(attrs.MD5),
		HashType: "md5",
		Rename:   []string{"chromedriver_linux64/chromedriver", "chromedriver"},
		Version:  build,
	}, nil
}

// GeckodriverFile describes the latest geckodriver release published on
// GitHub. A nil client uses the public API.
func GeckodriverFile(ctx context.Context, client *github.Client) (File, error) {
	if client == nil {
		client = github.NewClient(nil)
	}
	rel, _, err := client.Repositories.GetLatestRelease(ctx, "mozilla", "geckodriver")
	if err != nil {
		return File{}, fmt.Errorf("cannot get the latest geckodriver release: %w", err)
	}
	v, err := semver.ParseTolerant(rel.GetTagName())
	if err != nil {
		return File{}, fmt.Errorf("geckodriver release has an invalid tag %q: %w", rel.GetTagName(), err)
	}
	if v.LT(MinGeckodriver) {
		return File{}, fmt.Errorf("latest geckodriver release %s is older than %s", v, MinGeckodriver)
	}
	for _, a := range rel.Assets {
		if !geckodriverAsset.MatchString(a.GetName()) {
			continue
		}
		u := a.GetBrowserDownloadURL()
		if u == "" {
			return File{}, fmt.Errorf("%s does not have a download URL", a.GetName())
		}
		return File{URL: u, Name: "geckodriver.tar.gz", Version: v.String()}, nil
	}
	return File{}, fmt.Errorf("no asset matching %s in geckodriver release %s", geckodriverAsset, rel.GetTagName())
}

// Download fetches file into directory unless a copy with the expected hash
// is already there, then extracts it and applies its rename.
func Download(ctx context.Context, file File, directory string) error {
	if file.Hash != "" && sameHash(file, directory) {
		glog.Infof("Skipping file %q which has already been downloaded.", file.Name)
	} else {
		glog.Infof("Downloading %q from %q", file.Name, file.URL)
		if err := fetch(ctx, file, directory); err != nil {
			return err
		}
	}

	if err := extract(file, directory); err != nil {
		return err
	}

	if rename := file.Rename; len(rename) == 2 {
		from := filepath.Join(directory, rename[0])
		to := filepath.Join(directory, rename[1])
		glog.Infof("Renaming %q to %q", from, to)
		os.RemoveAll(to)
		if err := os.Rename(from, to); err != nil {
			return fmt.Errorf("error renaming %q to %q: %w", from, to, err)
		}
	}
	return nil
}

// DownloadAll downloads files into directory in parallel.
func DownloadAll(ctx context.Context, directory string, files []File) error {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("error creating %q: %w", directory, err)
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := Download(ctx, file, directory); err != nil {
				return fmt.Errorf("error handling %s: %w", file.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func newHash(hashType string) hash.Hash {
	switch strings.ToLower(hashType) {
	case "md5":
		return md5.New()
	case "sha1":
		return sha1.New()
	}
	return sha256.New()
}

func fetch(ctx context.Context, file File, directory string) (err error) {
	p := file.Path(directory)
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("error creating %q: %w", p, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing %q: %w", p, closeErr)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.URL, nil)
	if err != nil {
		return fmt.Errorf("%s: invalid URL %q: %w", file.Name, file.URL, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: error downloading %q: %w", file.Name, file.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: error downloading %q: %s", file.Name, file.URL, resp.Status)
	}

	h := newHash(file.HashType)
	if _, err := io.Copy(io.MultiWriter(f, h), resp.Body); err != nil {
		return fmt.Errorf("%s: error downloading %q: %w", file.Name, file.URL, err)
	}
	if file.Hash == "" {
		return nil
	}
	if sum := hex.EncodeToString(h.Sum(nil)); sum != file.Hash {
		return fmt.Errorf("%s: got hash %q, want %q", file.Name, sum, file.Hash)
	}
	return nil
}

func sameHash(file File, directory string) bool {
	f, err := os.Open(file.Path(directory))
	if err != nil {
		return false
	}
	defer f.Close()

	h := newHash(file.HashType)
	if _, err := io.Copy(h, f); err != nil {
		return false
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if sum != file.Hash {
		glog.Warningf("File %q: got hash %q, expect hash %q", file.Name, sum, file.Hash)
		return false
	}
	return true
}

func extract(file File, directory string) error {
	p := file.Path(directory)
	var err error
	switch {
	case strings.HasSuffix(file.Name, ".zip"):
		glog.Infof("Unzipping %q", p)
		err = unzip(p, directory)
	case strings.HasSuffix(file.Name, ".tar.gz"), strings.HasSuffix(file.Name, ".tgz"):
		glog.Infof("Unpacking %q", p)
		err = untar(p, directory)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("error extracting %q: %w", file.Name, err)
	}
	return nil
}

// target resolves name inside directory, refusing paths that escape it.
func target(directory, name string) (string, error) {
	p := filepath.Join(directory, name)
	rel, err := filepath.Rel(directory, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q is outside of %q", name, directory)
	}
	return p, nil
}

func unzip(archive, directory string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		p, err := target(directory, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(p, 0755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = write(p, f.Mode(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func untar(archive, directory string) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		p, err := target(directory, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(p, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := write(p, hdr.FileInfo().Mode(), tr); err != nil {
				return err
			}
		default:
			glog.V(1).Infof("Skipping %q of type %c", hdr.Name, hdr.Typeflag)
		}
	}
}

func write(p string, mode os.FileMode, r io.Reader) (err error) {
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm()|0600)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	_, err = io.Copy(f, r)
	return err
}
