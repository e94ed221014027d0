// Package volumes lists mounted removable media such as memory cards.
package volumes

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/prometheus/procfs"

	"github.com/contre95/rawsolid/src/photo"
)

// DefaultMediaRoots are the directories desktop automounters mount removable disks under.
var DefaultMediaRoots = []string{"/media", "/run/media", "/mnt"}

// Lister finds removable volumes from the mount table, or from /Volumes where
// there is no procfs.
type Lister struct {
	procRoot   string
	mediaRoots []string
	volumesDir string
}

// NewLister creates a Lister reading the host's mount table.
func NewLister() *Lister {
	return &Lister{
		procRoot:   procfs.DefaultMountPoint,
		mediaRoots: DefaultMediaRoots,
		volumesDir: "/Volumes",
	}
}

// List returns the mounted removable volumes sorted by mount point.
func (l *Lister) List() ([]photo.Volume, error) {
	fs, err := procfs.NewFS(l.procRoot)
	if err != nil {
		slog.Debug("procfs not available, listing volumes directory", "dir", l.volumesDir, "error", err)
		return l.listVolumesDir()
	}
	self, err := fs.Self()
	if err != nil {
		return nil, photo.NewError(photo.KindIoError, l.procRoot, err)
	}
	mounts, err := self.MountInfo()
	if err != nil {
		return nil, photo.NewError(photo.KindIoError, l.procRoot, err)
	}

	seen := make(map[string]bool)
	var vols []photo.Volume
	for _, m := range mounts {
		if !l.removable(m) || seen[m.MountPoint] {
			continue
		}
		seen[m.MountPoint] = true
		vols = append(vols, photo.Volume{
			Name:       filepath.Base(m.MountPoint),
			MountPoint: m.MountPoint,
			Device:     m.Source,
			FileSystem: m.FSType,
		})
	}
	sortVolumes(vols)
	return vols, nil
}

// removable keeps block devices mounted below one of the media roots.
func (l *Lister) removable(m *procfs.MountInfo) bool {
	if !strings.HasPrefix(m.Source, "/dev/") {
		return false
	}
	for _, root := range l.mediaRoots {
		if strings.HasPrefix(m.MountPoint, root+"/") {
			return true
		}
	}
	return false
}

func (l *Lister) listVolumesDir() ([]photo.Volume, error) {
	entries, err := os.ReadDir(l.volumesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, photo.NewError(photo.KindIoError, l.volumesDir, err)
	}
	var vols []photo.Volume
	for _, e := range entries {
		mount := filepath.Join(l.volumesDir, e.Name())
		// The boot disk shows up as a symlink to /.
		if target, err := filepath.EvalSymlinks(mount); err == nil && target == "/" {
			continue
		}
		vols = append(vols, photo.Volume{Name: e.Name(), MountPoint: mount})
	}
	sortVolumes(vols)
	return vols, nil
}

func sortVolumes(vols []photo.Volume) {
	sort.Slice(vols, func(i, j int) bool { return vols[i].MountPoint < vols[j].MountPoint })
}
