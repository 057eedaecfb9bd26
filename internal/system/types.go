package system

// VolumeInfo contains space information about the volume holding a path
type VolumeInfo struct {
	Path       string
	TotalSize  uint64
	FreeSize   uint64
	UsedSize   uint64
	IsWritable bool
}
