package display

import "fmt"

// OutputTechnology is DISPLAYCONFIG_VIDEO_OUTPUT_TECHNOLOGY: how a target is
// connected to its adapter.
type OutputTechnology uint32

const (
	OutputTechnologyOther                OutputTechnology = 0xFFFFFFFF
	OutputTechnologyHD15                 OutputTechnology = 0
	OutputTechnologySVideo               OutputTechnology = 1
	OutputTechnologyCompositeVideo       OutputTechnology = 2
	OutputTechnologyComponentVideo       OutputTechnology = 3
	OutputTechnologyDVI                  OutputTechnology = 4
	OutputTechnologyHDMI                 OutputTechnology = 5
	OutputTechnologyLVDS                 OutputTechnology = 6
	OutputTechnologyDJPN                 OutputTechnology = 8
	OutputTechnologySDI                  OutputTechnology = 9
	OutputTechnologyDisplayPortExternal  OutputTechnology = 10
	OutputTechnologyDisplayPortEmbedded  OutputTechnology = 11
	OutputTechnologyUDIExternal          OutputTechnology = 12
	OutputTechnologyUDIEmbedded          OutputTechnology = 13
	OutputTechnologySDTVDongle           OutputTechnology = 14
	OutputTechnologyMiracast             OutputTechnology = 15
	OutputTechnologyIndirectWired        OutputTechnology = 16
	OutputTechnologyIndirectVirtual      OutputTechnology = 17
	OutputTechnologyDisplayPortUSBTunnel OutputTechnology = 18
	OutputTechnologyInternal             OutputTechnology = 0x80000000
)

var outputTechnologyNames = map[OutputTechnology]string{
	OutputTechnologyOther:                "other",
	OutputTechnologyHD15:                 "hd15",
	OutputTechnologySVideo:               "svideo",
	OutputTechnologyCompositeVideo:       "composite",
	OutputTechnologyComponentVideo:       "component",
	OutputTechnologyDVI:                  "dvi",
	OutputTechnologyHDMI:                 "hdmi",
	OutputTechnologyLVDS:                 "lvds",
	OutputTechnologyDJPN:                 "d-jpn",
	OutputTechnologySDI:                  "sdi",
	OutputTechnologyDisplayPortExternal:  "displayport",
	OutputTechnologyDisplayPortEmbedded:  "displayport-embedded",
	OutputTechnologyUDIExternal:          "udi",
	OutputTechnologyUDIEmbedded:          "udi-embedded",
	OutputTechnologySDTVDongle:           "sdtv-dongle",
	OutputTechnologyMiracast:             "miracast",
	OutputTechnologyIndirectWired:        "indirect-wired",
	OutputTechnologyIndirectVirtual:      "indirect-virtual",
	OutputTechnologyDisplayPortUSBTunnel: "displayport-usb-tunnel",
	OutputTechnologyInternal:             "internal",
}

func (t OutputTechnology) String() string {
	if name, ok := outputTechnologyNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(0x%08x)", uint32(t))
}

// MarshalText renders the technology by name so JSON and YAML output stay
// readable.
func (t OutputTechnology) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (t *OutputTechnology) UnmarshalText(b []byte) error {
	s := string(b)
	for v, name := range outputTechnologyNames {
		if name == s {
			*t = v
			return nil
		}
	}
	var raw uint32
	if _, err := fmt.Sscanf(s, "unknown(0x%08x)", &raw); err == nil {
		*t = OutputTechnology(raw)
		return nil
	}
	return fmt.Errorf("unknown output technology %q", s)
}

// Internal reports whether the technology denotes a built-in panel.
func (t OutputTechnology) Internal() bool {
	return t == OutputTechnologyInternal
}
