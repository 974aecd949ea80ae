//go:build linux

package wheelbus

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/g29wheel/g29wheel/pkg/g29hid"
)

const (
	configFSGadgetDir = g29hid.ConfigFSRoot + "/" + g29hid.GadgetName
	configFSFuncDir   = configFSGadgetDir + "/functions/" + g29hid.HIDFunction
	configFSConfigDir = configFSGadgetDir + "/configs/c.1"
)

// gadgetUDCPath is the attribute file that binds/unbinds the gadget to a
// UDC: writing a controller name binds it, writing an empty string unbinds.
func gadgetUDCPath() string {
	return filepath.Join(configFSGadgetDir, "UDC")
}

// ensureGadgetTree creates the ConfigFS gadget tree if it doesn't already
// exist, or rebuilds it if it exists but is missing the HID function or
// configuration (a half-torn-down tree from a previous crash). Populated
// entirely via direct file writes, never a shell-out.
func ensureGadgetTree() error {
	if _, err := os.Stat(g29hid.ConfigFSRoot); err != nil {
		return ErrNoConfigFS
	}
	if _, err := os.Stat(g29hid.UDCClassPath); err != nil {
		return ErrNoUDC
	}

	gadgetExists := dirExists(configFSGadgetDir)
	if gadgetExists {
		if !dirExists(configFSFuncDir) || !dirExists(configFSConfigDir) {
			removeGadgetTree()
			gadgetExists = false
		}
	}
	if gadgetExists {
		return nil
	}
	return createGadgetTree()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func writeAttr(path, value string) error {
	return os.WriteFile(path, []byte(value), 0o644)
}

func createGadgetTree() error {
	if err := os.MkdirAll(configFSGadgetDir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrGadgetSetup, err)
	}

	attrs := map[string]string{
		"idVendor":        fmt.Sprintf("0x%04x", g29hid.VendorID),
		"idProduct":       fmt.Sprintf("0x%04x", g29hid.ProductID),
		"bcdDevice":       fmt.Sprintf("0x%04x", g29hid.BCDDevice),
		"bcdUSB":          fmt.Sprintf("0x%04x", g29hid.BCDUSB),
		"bDeviceClass":    fmt.Sprintf("0x%02x", g29hid.DeviceClass),
		"bDeviceSubClass": fmt.Sprintf("0x%02x", g29hid.DeviceSubtype),
		"bDeviceProtocol": fmt.Sprintf("0x%02x", g29hid.DeviceProto),
	}
	for name, value := range attrs {
		if err := writeAttr(filepath.Join(configFSGadgetDir, name), value); err != nil {
			removeGadgetTree()
			return fmt.Errorf("%w: writing %s: %v", ErrGadgetSetup, name, err)
		}
	}

	stringsDir := filepath.Join(configFSGadgetDir, "strings", "0x409")
	if err := os.MkdirAll(stringsDir, 0o755); err != nil {
		removeGadgetTree()
		return fmt.Errorf("%w: %v", ErrGadgetSetup, err)
	}
	stringAttrs := map[string]string{
		"manufacturer": "Logitech",
		"product":      "G29 Driving Force Racing Wheel",
		"serialnumber": "000000000001",
	}
	for name, value := range stringAttrs {
		if err := writeAttr(filepath.Join(stringsDir, name), value); err != nil {
			removeGadgetTree()
			return fmt.Errorf("%w: writing strings/%s: %v", ErrGadgetSetup, name, err)
		}
	}

	if err := os.MkdirAll(configFSFuncDir, 0o755); err != nil {
		removeGadgetTree()
		return fmt.Errorf("%w: %v", ErrGadgetSetup, err)
	}
	funcAttrs := map[string]string{
		"protocol":      fmt.Sprintf("%d", g29hid.HIDProtocol),
		"subclass":      fmt.Sprintf("%d", g29hid.HIDSubclass),
		"report_length": fmt.Sprintf("%d", g29hid.InputReportLength),
	}
	for name, value := range funcAttrs {
		if err := writeAttr(filepath.Join(configFSFuncDir, name), value); err != nil {
			removeGadgetTree()
			return fmt.Errorf("%w: writing functions/%s: %v", ErrGadgetSetup, name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(configFSFuncDir, "report_desc"), g29hid.ReportDescriptor, 0o644); err != nil {
		removeGadgetTree()
		return fmt.Errorf("%w: writing report_desc: %v", ErrGadgetSetup, err)
	}

	configStringsDir := filepath.Join(configFSConfigDir, "strings", "0x409")
	if err := os.MkdirAll(configStringsDir, 0o755); err != nil {
		removeGadgetTree()
		return fmt.Errorf("%w: %v", ErrGadgetSetup, err)
	}
	if err := writeAttr(filepath.Join(configStringsDir, "configuration"), "G29 Configuration"); err != nil {
		removeGadgetTree()
		return fmt.Errorf("%w: %v", ErrGadgetSetup, err)
	}
	if err := writeAttr(filepath.Join(configFSConfigDir, "MaxPower"), "500"); err != nil {
		removeGadgetTree()
		return fmt.Errorf("%w: %v", ErrGadgetSetup, err)
	}

	link := filepath.Join(configFSConfigDir, g29hid.HIDFunction)
	if err := os.Symlink(configFSFuncDir, link); err != nil && !os.IsExist(err) {
		removeGadgetTree()
		return fmt.Errorf("%w: linking function into config: %v", ErrGadgetSetup, err)
	}

	return nil
}

// removeGadgetTree tears down the gadget tree in dependency order: unbind
// first, then the function symlink, the configuration's strings and
// directory, the function, the gadget strings, and finally the gadget
// directory itself. Every step is best-effort; a half-removed tree will be
// rebuilt on the next ensureGadgetTree call.
func removeGadgetTree() {
	_ = writeAttr(gadgetUDCPath(), "")
	_ = os.Remove(filepath.Join(configFSConfigDir, g29hid.HIDFunction))
	_ = os.RemoveAll(filepath.Join(configFSConfigDir, "strings"))
	_ = os.Remove(configFSConfigDir)
	_ = os.RemoveAll(configFSFuncDir)
	_ = os.RemoveAll(filepath.Join(configFSGadgetDir, "strings"))
	_ = os.Remove(configFSGadgetDir)
}

func detectFirstUDC() string {
	entries, err := os.ReadDir(g29hid.UDCClassPath)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.Name()[0] == '.' {
			continue
		}
		return e.Name()
	}
	return ""
}
