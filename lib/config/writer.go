package config

import (
	"os"
	"path/filepath"

	"github.com/go-i2p/logger"
	"github.com/spf13/afero"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// WriteDefault serializes v with codec and persists it at path.
//
// The file is first written to a temporary sibling, synced, closed and only
// then renamed onto path, so path holds either its previous content (or
// nothing) or the complete new content. Missing parent directories are
// created.
func WriteDefault(fs afero.Fs, path string, codec Codec, v any) error {
	data, err := codec.Marshal(v)
	if err != nil {
		return &Error{Kind: KindSerialize, Op: "encode", Path: path, Err: err}
	}
	if err := writeAtomic(fs, path, data); err != nil {
		return err
	}
	log.WithFields(logger.Fields{
		"at":     "WriteDefault",
		"path":   path,
		"format": codec.Format(),
	}).Debug("created default config")
	return nil
}

func writeAtomic(fs afero.Fs, path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, dirPerm); err != nil {
		return ioError("mkdir", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return ioError("create", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return ioError("write", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return ioError("sync", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return ioError("close", tmpName, err)
	}
	if err = fs.Chmod(tmpName, filePerm); err != nil {
		return ioError("chmod", tmpName, err)
	}
	if err = fs.Rename(tmpName, path); err != nil {
		return ioError("rename", path, err)
	}
	return nil
}
