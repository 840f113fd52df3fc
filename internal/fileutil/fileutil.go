package fileutil

import "os"

// OwnerReadWrite is the file permission mode for written output files,
// which may embed fetched API content (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600
