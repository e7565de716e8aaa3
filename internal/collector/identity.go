package collector

import "strings"

// instanceID converts a monitor interface path into its device instance ID:
//
//	\\?\DISPLAY#DEL4109#5&1e0a7d2&0&UID4352#{e6f07b5f-...}
//	DISPLAY\DEL4109\5&1e0a7d2&0&UID4352
//
// It returns "" for paths that are not device interface paths.
func instanceID(path string) string {
	rest, ok := strings.CutPrefix(path, `\\?\`)
	if !ok {
		return ""
	}
	// Drop the interface class GUID.
	if i := strings.LastIndex(rest, "#{"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return ""
	}
	return strings.ReplaceAll(rest, "#", `\`)
}

// wmiInstanceID strips the _N suffix WMI appends to instance names.
func wmiInstanceID(name string) string {
	i := strings.LastIndexByte(name, '_')
	if i < 0 {
		return name
	}
	for _, c := range name[i+1:] {
		if c < '0' || c > '9' {
			return name
		}
	}
	if i == len(name)-1 {
		return name
	}
	return name[:i]
}

// identityIndex looks identities up by device instance ID, case
// insensitively.
type identityIndex map[string]MonitorIdentity

func newIdentityIndex(ids []MonitorIdentity) identityIndex {
	idx := make(identityIndex, len(ids))
	for _, id := range ids {
		idx[strings.ToUpper(wmiInstanceID(id.InstanceName))] = id
	}
	return idx
}

func (idx identityIndex) match(path string) (MonitorIdentity, bool) {
	key := instanceID(path)
	if key == "" {
		return MonitorIdentity{}, false
	}
	id, ok := idx[strings.ToUpper(key)]
	return id, ok
}

// decodeWMIString decodes the zero padded code unit arrays of WmiMonitorID.
func decodeWMIString(units []int32) string {
	var b strings.Builder
	for _, u := range units {
		if u == 0 {
			break
		}
		b.WriteRune(rune(u))
	}
	return strings.TrimSpace(b.String())
}
