package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BookingPolicy carries operator-tunable booking defaults. Pricing and tax
// policy live in the database; this only covers fee fallbacks and lock TTL.
type BookingPolicy struct {
	DefaultCleaningFee int64         `mapstructure:"defaultCleaningFee"`
	DefaultServiceFee  int64         `mapstructure:"defaultServiceFee"`
	LockTTL            time.Duration `mapstructure:"lockTTL"`
	MaxStayNights      int           `mapstructure:"maxStayNights"`
}

func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		DefaultCleaningFee: 0,
		DefaultServiceFee:  0,
		LockTTL:            10 * time.Second,
		MaxStayNights:      90,
	}
}

// BookingPolicyHolder exposes the current policy and hot-reloads it from disk.
type BookingPolicyHolder struct {
	current atomic.Value // holds BookingPolicy
}

func NewBookingPolicyHolder() (*BookingPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("booking")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/stayledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STAYLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBookingPolicy()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		v.SetDefault("booking.defaultCleaningFee", defaults.DefaultCleaningFee)
		v.SetDefault("booking.defaultServiceFee", defaults.DefaultServiceFee)
		v.SetDefault("booking.lockTTL", defaults.LockTTL)
		v.SetDefault("booking.maxStayNights", defaults.MaxStayNights)
	}

	var policy BookingPolicy
	if err := v.UnmarshalKey("booking", &policy); err != nil {
		return nil, err
	}
	if err := validateBookingPolicy(&policy); err != nil {
		return nil, err
	}

	holder := &BookingPolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BookingPolicy
		if err := v.UnmarshalKey("booking", &updated); err != nil {
			log.Printf("[booking-policy] reload failed: %v", err)
			return
		}
		if err := validateBookingPolicy(&updated); err != nil {
			log.Printf("[booking-policy] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[booking-policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticBookingPolicyHolder wraps a fixed policy without file watching.
func NewStaticBookingPolicyHolder(policy BookingPolicy) *BookingPolicyHolder {
	holder := &BookingPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func (h *BookingPolicyHolder) Get() BookingPolicy {
	return h.current.Load().(BookingPolicy)
}

func validateBookingPolicy(policy *BookingPolicy) error {
	if policy.DefaultCleaningFee < 0 || policy.DefaultServiceFee < 0 {
		return errors.New("booking fees cannot be negative")
	}
	if policy.LockTTL <= 0 {
		policy.LockTTL = DefaultBookingPolicy().LockTTL
	}
	if policy.MaxStayNights <= 0 {
		policy.MaxStayNights = DefaultBookingPolicy().MaxStayNights
	}
	return nil
}
