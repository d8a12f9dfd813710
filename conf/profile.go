package conf

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// param binds a profile key to a setter on Config.
type param struct {
	set func(c *Config, v string) error
}

func intParam(dst func(c *Config) *int) param {
	return param{set: func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}}
}

func uint64Param(dst func(c *Config) *uint64) param {
	return param{set: func(c *Config, v string) error {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}}
}

func floatParam(dst func(c *Config) *float64) param {
	return param{set: func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst(c) = f
		return nil
	}}
}

func boolParam(dst func(c *Config) *bool) param {
	return param{set: func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}}
}

// deviceParams lists the keys a device profile may set.
var deviceParams = map[string]param{
	"NUM_BANKS":          intParam(func(c *Config) *int { return &c.NumBanks }),
	"NUM_ROWS":           intParam(func(c *Config) *int { return &c.NumRows }),
	"NUM_COLS":           intParam(func(c *Config) *int { return &c.NumCols }),
	"DEVICE_WIDTH":       intParam(func(c *Config) *int { return &c.NumDevices }),
	"BL":                 intParam(func(c *Config) *int { return &c.BL }),
	"WL":                 intParam(func(c *Config) *int { return &c.WL }),
	"AL":                 intParam(func(c *Config) *int { return &c.AL }),
	"CL":                 intParam(func(c *Config) *int { return &c.CL }),
	"tCK":                floatParam(func(c *Config) *float64 { return &c.TCK }),
	"tRCD":               intParam(func(c *Config) *int { return &c.TRCD }),
	"tRP":                intParam(func(c *Config) *int { return &c.TRP }),
	"tRAS":               intParam(func(c *Config) *int { return &c.TRAS }),
	"tRC":                intParam(func(c *Config) *int { return &c.TRC }),
	"tRFC":               intParam(func(c *Config) *int { return &c.TRFC }),
	"tRRD":               intParam(func(c *Config) *int { return &c.TRRD }),
	"tCCD":               intParam(func(c *Config) *int { return &c.TCCD }),
	"tRTRS":              intParam(func(c *Config) *int { return &c.TRTRS }),
	"tWTR":               intParam(func(c *Config) *int { return &c.TWTR }),
	"tRTP":               intParam(func(c *Config) *int { return &c.TRTP }),
	"tWR":                intParam(func(c *Config) *int { return &c.TWR }),
	"tCMD":               intParam(func(c *Config) *int { return &c.TCMD }),
	"tXP":                intParam(func(c *Config) *int { return &c.TXP }),
	"tCKE":               intParam(func(c *Config) *int { return &c.TCKE }),
	"REFRESH_PERIOD":     floatParam(func(c *Config) *float64 { return &c.RefreshPeriod }),
	"IDD0":               intParam(func(c *Config) *int { return &c.IDD0 }),
	"IDD1":               intParam(func(c *Config) *int { return &c.IDD1 }),
	"IDD2P":              intParam(func(c *Config) *int { return &c.IDD2P }),
	"IDD2N":              intParam(func(c *Config) *int { return &c.IDD2N }),
	"IDD3Pf":             intParam(func(c *Config) *int { return &c.IDD3Pf }),
	"IDD3Ps":             intParam(func(c *Config) *int { return &c.IDD3Ps }),
	"IDD3N":              intParam(func(c *Config) *int { return &c.IDD3N }),
	"IDD4R":              intParam(func(c *Config) *int { return &c.IDD4R }),
	"IDD4W":              intParam(func(c *Config) *int { return &c.IDD4W }),
	"IDD5":               intParam(func(c *Config) *int { return &c.IDD5 }),
	"IDD6":               intParam(func(c *Config) *int { return &c.IDD6 }),
	"IDD6L":              intParam(func(c *Config) *int { return &c.IDD6L }),
	"IDD7":               intParam(func(c *Config) *int { return &c.IDD7 }),
	"Vdd":                floatParam(func(c *Config) *float64 { return &c.Vdd }),
	"isSmartMRAM":        {set: setTechnology},
	"TOTAL_ROW_ACCESSES": intParam(func(c *Config) *int { return &c.TotalRowAccesses }),
}

// systemParams lists the keys a system profile may set.
var systemParams = map[string]param{
	"NUM_CHANS":           intParam(func(c *Config) *int { return &c.NumChans }),
	"NUM_RANKS":           intParam(func(c *Config) *int { return &c.NumRanks }),
	"JEDEC_DATA_BUS_BITS": intParam(func(c *Config) *int { return &c.JEDECDataBusBits }),
	"TRANS_QUEUE_DEPTH":   intParam(func(c *Config) *int { return &c.TransQueueDepth }),
	"CMD_QUEUE_DEPTH":     intParam(func(c *Config) *int { return &c.CmdQueueDepth }),
	"EPOCH_LENGTH":        uint64Param(func(c *Config) *uint64 { return &c.EpochLength }),
	"HISTOGRAM_BIN_SIZE":  uint64Param(func(c *Config) *uint64 { return &c.HistogramBinSize }),
	"USE_LOW_POWER":       boolParam(func(c *Config) *bool { return &c.UseLowPower }),
	"ADDRESS_MAPPING_SCHEME": {
		set: func(c *Config, v string) error {
			c.AddressMappingScheme = strings.ToLower(v)
			return nil
		}},
	"ROW_BUFFER_POLICY": {set: setRowBufferPolicy},
	"SCHEDULING_POLICY": {set: setSchedulerPolicy},
}

func setTechnology(c *Config, v string) error {
	smart, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}

	if smart {
		c.Technology = TechSmartMRAM
	} else {
		c.Technology = TechDRAM
	}

	return nil
}

func setRowBufferPolicy(c *Config, v string) error {
	switch strings.ToLower(v) {
	case "open_page", "openpage":
		c.RowBufferPolicy = OpenPage
	case "close_page", "closepage":
		c.RowBufferPolicy = ClosePage
	default:
		return fmt.Errorf("unknown row buffer policy %q", v)
	}

	return nil
}

func setSchedulerPolicy(c *Config, v string) error {
	switch strings.ToLower(v) {
	case "rank_then_bank_round_robin", "rank_then_bank":
		c.SchedulerPolicy = RankThenBank
	case "command_fcfs", "fcfs":
		c.SchedulerPolicy = CommandFCFS
	default:
		return fmt.Errorf("unknown scheduling policy %q", v)
	}

	return nil
}

// LoadDeviceProfile applies a device profile file on top of cfg.
func LoadDeviceProfile(path string, cfg *Config) error {
	return loadProfile(path, cfg, deviceParams, "device")
}

// LoadSystemProfile applies a system profile file on top of cfg.
func LoadSystemProfile(path string, cfg *Config) error {
	return loadProfile(path, cfg, systemParams, "system")
}

func loadProfile(
	path string,
	cfg *Config,
	params map[string]param,
	profileKind string,
) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %s profile: %w", profileKind, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		key, value, ok := splitProfileLine(scanner.Text())
		if !ok {
			continue
		}

		p, known := params[key]
		if !known {
			return fmt.Errorf("%s:%d: unknown %s profile option %q",
				path, lineNo, profileKind, key)
		}

		if err := p.set(cfg, value); err != nil {
			return fmt.Errorf("%s:%d: bad value for %s: %w",
				path, lineNo, key, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s profile: %w", profileKind, err)
	}

	return nil
}

// splitProfileLine strips comments and whitespace and splits KEY=VALUE.
func splitProfileLine(line string) (key, value string, ok bool) {
	if i := strings.IndexAny(line, ";#"); i >= 0 {
		line = line[:i]
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", false
	}

	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}

	return strings.TrimSpace(key), strings.TrimSpace(value), true
}
