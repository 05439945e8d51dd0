package finance

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var ErrUnknownClass = errors.New("no fees configured for this class")

type (
	// ScheduleItem is one billable category of a class fee schedule.
	ScheduleItem struct {
		Category string
		Amount   decimal.Decimal
	}

	// Schedule maps a class name to its ordered fee items.
	Schedule map[string][]ScheduleItem

	scheduleDoc struct {
		Classes []struct {
			Class string `yaml:"class"`
			Items []struct {
				Category string `yaml:"category"`
				Amount   string `yaml:"amount"`
			} `yaml:"items"`
		} `yaml:"classes"`
	}
)

// LoadSchedule decodes a YAML fee schedule:
//
//	classes:
//	  - class: Creche
//	    items:
//	      - {category: Tuition, amount: "300.00"}
func LoadSchedule(r io.Reader) (Schedule, error) {
	var doc scheduleDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding fee schedule")
	}

	sched := make(Schedule, len(doc.Classes))
	for _, c := range doc.Classes {
		items := make([]ScheduleItem, 0, len(c.Items))
		for _, it := range c.Items {
			amount, err := ParseAmount(it.Amount)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing amount of %s/%s", c.Class, it.Category)
			}
			items = append(items, ScheduleItem{Category: it.Category, Amount: amount})
		}
		sched[c.Class] = items
	}
	return sched, nil
}

// FeeItems bills the schedule of `class` on `date`.
func (s Schedule) FeeItems(class, date string) ([]FeeItem, error) {
	items, ok := s[class]
	if !ok {
		return nil, ErrUnknownClass
	}
	fees := make([]FeeItem, 0, len(items))
	for _, it := range items {
		fees = append(fees, FeeItem{Category: it.Category, Amount: it.Amount, Date: date})
	}
	return fees, nil
}

type (
	// RecordDoc is the YAML shape of a Record; amounts are kept as strings
	// so they decode without loss.
	RecordDoc struct {
		FeeItems []struct {
			Category string `yaml:"category"`
			Amount   string `yaml:"amount"`
			Date     string `yaml:"date"`
		} `yaml:"fee_items"`
		Discounts []struct {
			Type        string `yaml:"type"`
			Amount      string `yaml:"amount"`
			Description string `yaml:"description"`
		} `yaml:"discounts"`
		Payments []struct {
			Date    string `yaml:"date"`
			Amount  string `yaml:"amount"`
			Receipt string `yaml:"receipt"`
		} `yaml:"payments"`
	}
)

func (doc RecordDoc) Record() (Record, error) {
	var rec Record
	for _, it := range doc.FeeItems {
		amount, err := ParseAmount(it.Amount)
		if err != nil {
			return Record{}, errors.Wrapf(err, "fee item %q", it.Category)
		}
		rec.FeeItems = append(rec.FeeItems, FeeItem{Category: it.Category, Amount: amount, Date: it.Date})
	}
	for _, d := range doc.Discounts {
		amount, err := ParseAmount(d.Amount)
		if err != nil {
			return Record{}, errors.Wrapf(err, "discount %q", d.Type)
		}
		rec.Discounts = append(rec.Discounts, Discount{Type: DiscountType(d.Type), Amount: amount, Description: d.Description})
	}
	for _, p := range doc.Payments {
		amount, err := ParseAmount(p.Amount)
		if err != nil {
			return Record{}, errors.Wrapf(err, "payment %q", p.Receipt)
		}
		rec.Payments = append(rec.Payments, Payment{Date: p.Date, Amount: amount, Receipt: p.Receipt})
	}
	return rec, nil
}

// LoadRecord decodes a single YAML financial record.
func LoadRecord(r io.Reader) (Record, error) {
	var doc RecordDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Record{}, errors.Wrap(err, "decoding financial record")
	}
	return doc.Record()
}
