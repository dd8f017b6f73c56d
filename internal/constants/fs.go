package constants

import "os"

const (
	// DefaultFilePermissions sets the default permissions for regular files: (rw-r--r--).
	// Owner: read and write;
	// Group: read;
	// Others: read.
	DefaultFilePermissions os.FileMode = 0o644

	// DefaultFolderPermissions sets the default permissions for regular folders: (rwxr-xr-x).
	// Owner: read, write, and execute;
	// Group: read and execute;
	// Others: read and execute.
	DefaultFolderPermissions os.FileMode = 0o755
)

// File name constants for per-track output.
const (
	// AudioFilename is the name of the decrypted audio file inside a track folder.
	AudioFilename = "audio.mp3"
	// LyricsFilename is the name of the lyrics file inside a track folder.
	LyricsFilename = "lyrics.json"
	// PartFileExtension marks an in-progress download before the final rename.
	PartFileExtension = ".part"
)
