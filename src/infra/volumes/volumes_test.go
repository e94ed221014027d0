package volumes

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleMountInfo = `22 1 8:2 / / rw,relatime shared:1 - ext4 /dev/sda2 rw
25 22 0:22 / /proc rw,nosuid,nodev,noexec,relatime shared:12 - proc proc rw
28 22 8:1 / /boot/efi rw,relatime shared:3 - vfat /dev/sda1 rw,fmask=0077
31 22 0:26 / /run rw,nosuid,nodev shared:5 - tmpfs tmpfs rw,size=1628288k
120 31 8:33 / /run/media/ana/EOS_DIGITAL rw,nosuid,nodev,relatime shared:66 - exfat /dev/sdc1 rw,fmask=0022
121 22 8:49 / /media/NIKON_Z6 rw,nosuid,nodev,relatime shared:67 - vfat /dev/sdd1 rw,fmask=0022
122 22 0:50 / /mnt/share rw,relatime shared:70 - nfs nas:/export rw,vers=4.2
`

// fakeProc lays out a procfs root whose self process has the given mountinfo.
func fakeProc(t *testing.T, mountinfo string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "42"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "42", "mountinfo"), []byte(mountinfo), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("42", filepath.Join(root, "self")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	return root
}

func TestList_FiltersRemovableMounts(t *testing.T) {
	l := &Lister{procRoot: fakeProc(t, sampleMountInfo), mediaRoots: DefaultMediaRoots}

	vols, err := l.List()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(vols) != 2 {
		t.Fatalf("expected 2 volumes, got %+v", vols)
	}
	if vols[0].MountPoint != "/media/NIKON_Z6" || vols[0].Name != "NIKON_Z6" || vols[0].FileSystem != "vfat" {
		t.Errorf("unexpected first volume %+v", vols[0])
	}
	if vols[1].MountPoint != "/run/media/ana/EOS_DIGITAL" || vols[1].Device != "/dev/sdc1" {
		t.Errorf("unexpected second volume %+v", vols[1])
	}
}

func TestList_NoRemovableMounts(t *testing.T) {
	l := &Lister{procRoot: fakeProc(t, "22 1 8:2 / / rw,relatime shared:1 - ext4 /dev/sda2 rw\n"), mediaRoots: DefaultMediaRoots}
	vols, err := l.List()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(vols) != 0 {
		t.Errorf("expected no volumes, got %+v", vols)
	}
}

func TestList_VolumesDirWithoutProcfs(t *testing.T) {
	volumesDir := t.TempDir()
	for _, name := range []string{"SD_CARD", "BACKUP"} {
		if err := os.Mkdir(filepath.Join(volumesDir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	l := &Lister{procRoot: filepath.Join(t.TempDir(), "missing"), volumesDir: volumesDir}

	vols, err := l.List()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(vols) != 2 || vols[0].Name != "BACKUP" || vols[1].MountPoint != filepath.Join(volumesDir, "SD_CARD") {
		t.Errorf("unexpected volumes %+v", vols)
	}
}

func TestList_MissingVolumesDir(t *testing.T) {
	l := &Lister{procRoot: filepath.Join(t.TempDir(), "missing"), volumesDir: filepath.Join(t.TempDir(), "missing")}
	vols, err := l.List()
	if err != nil || len(vols) != 0 {
		t.Errorf("expected empty list, got %+v, %v", vols, err)
	}
}
