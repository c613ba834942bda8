package artifact

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/odpf/salt/log"
	"github.com/spf13/afero"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/azureblob" // azblob://
	_ "gocloud.dev/blob/fileblob"  // file://
	_ "gocloud.dev/blob/memblob"   // mem://

	"github.com/srmds/takeoff/core/job"
	"github.com/srmds/takeoff/internal/errors"
)

const EntityArtifact = "artifact"

// OpenBucket opens the bucket behind a gocloud url, e.g. azblob://libraries
func OpenBucket(ctx context.Context, bucketURL string) (*blob.Bucket, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.ConfigWrap(EntityArtifact, "unable to open bucket "+bucketURL, err)
	}
	return bucket, nil
}

// Upload is a local file and the key it is stored under.
type Upload struct {
	Source string
	Key    string
}

type Uploader struct {
	fs     afero.Fs
	bucket *blob.Bucket
	logger log.Logger
}

func NewUploader(fs afero.Fs, bucket *blob.Bucket, logger log.Logger) *Uploader {
	return &Uploader{fs: fs, bucket: bucket, logger: logger}
}

// Plan maps the build output in sourceDir to the library layout of the
// application. Every artifact kind expected for the language has to be
// present exactly once.
func (u *Uploader) Plan(sourceDir, applicationName, version string, lang job.Language) ([]Upload, error) {
	libs := job.LibraryLocations("", applicationName, version, lang)
	wanted := map[string]string{}
	if lang.IsJVM() {
		wanted[".jar"] = libs.Jar
	} else {
		wanted[".whl"] = libs.Whl
		wanted[".py"] = libs.PythonFile
	}

	entries, err := afero.ReadDir(u.fs, sourceDir)
	if err != nil {
		return nil, errors.ConfigWrap(EntityArtifact, "unable to read source directory "+sourceDir, err)
	}

	found := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if _, ok := wanted[ext]; !ok {
			continue
		}
		if prev, ok := found[ext]; ok {
			return nil, errors.Config(EntityArtifact,
				fmt.Sprintf("found more than one %s artifact in %s: %s, %s", ext, sourceDir, prev, entry.Name()))
		}
		found[ext] = entry.Name()
	}

	exts := make([]string, 0, len(wanted))
	for ext := range wanted {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	uploads := make([]Upload, 0, len(wanted))
	for _, ext := range exts {
		name, ok := found[ext]
		if !ok {
			return nil, errors.Config(EntityArtifact, fmt.Sprintf("no %s artifact found in %s", ext, sourceDir))
		}
		uploads = append(uploads, Upload{
			Source: filepath.Join(sourceDir, name),
			Key:    job.ArtifactKey(wanted[ext], ""),
		})
	}
	return uploads, nil
}

// Upload copies the planned files to the bucket, overwriting earlier uploads
// of the same version.
func (u *Uploader) Upload(ctx context.Context, uploads []Upload) error {
	for _, up := range uploads {
		data, err := afero.ReadFile(u.fs, up.Source)
		if err != nil {
			return errors.ConfigWrap(EntityArtifact, "unable to read "+up.Source, err)
		}
		if err := u.bucket.WriteAll(ctx, up.Key, data, nil); err != nil {
			return errors.API(EntityArtifact, "unable to upload "+up.Key, err)
		}
		u.logger.Info("uploaded %s to %s", up.Source, up.Key)
	}
	return nil
}

// UploadBuild plans and uploads the build output, returning the keys written.
func (u *Uploader) UploadBuild(ctx context.Context, sourceDir, applicationName, version string, lang job.Language) ([]string, error) {
	uploads, err := u.Plan(sourceDir, applicationName, version, lang)
	if err != nil {
		return nil, err
	}
	if err := u.Upload(ctx, uploads); err != nil {
		return nil, err
	}
	keys := make([]string, len(uploads))
	for i, up := range uploads {
		keys[i] = up.Key
	}
	return keys, nil
}
