package buildconfig

var version = "snapshot"

func Version() string {
	return version
}

func IsRelease() bool {
	return version != "snapshot"
}
