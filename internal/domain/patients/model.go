package patients

import (
	"encoding/json"
	"time"
)

// Patient is the backend patient record.
type Patient struct {
	ID         int    `json:"pId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobileNo,omitempty"`
	DOB        string `json:"dob,omitempty"`
	Age        int    `json:"age,omitempty"`
	Gender     string `json:"gender,omitempty"`
	BloodGroup string `json:"bloodGroup,omitempty"`
	Address    string `json:"address,omitempty"`
	Password   string `json:"password,omitempty"`
}

// UnmarshalJSON also reads the column-style names (P_ID, Blood_Group,
// Mobile_No, ...) some backend endpoints return.
func (p *Patient) UnmarshalJSON(b []byte) error {
	type plain Patient
	var aux struct {
		plain
		LegacyID   int    `json:"P_ID"`
		PlainID    int    `json:"id"`
		ColName    string `json:"Name"`
		ColEmail   string `json:"Email"`
		ColMobile  string `json:"Mobile_No"`
		Phone      string `json:"phone"`
		ColDOB     string `json:"DOB"`
		ColAge     int    `json:"Age"`
		ColGender  string `json:"Gender"`
		ColBlood   string `json:"Blood_Group"`
		SnakeBlood string `json:"blood_group"`
		ColAddress string `json:"Address"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Patient(aux.plain)
	p.ID = firstInt(p.ID, aux.LegacyID, aux.PlainID)
	p.Name = firstString(p.Name, aux.ColName)
	p.Email = firstString(p.Email, aux.ColEmail)
	p.Mobile = firstString(p.Mobile, aux.ColMobile, aux.Phone)
	p.DOB = firstString(p.DOB, aux.ColDOB)
	p.Age = firstInt(p.Age, aux.ColAge)
	p.Gender = firstString(p.Gender, aux.ColGender)
	p.BloodGroup = firstString(p.BloodGroup, aux.ColBlood, aux.SnakeBlood)
	p.Address = firstString(p.Address, aux.ColAddress)
	return nil
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

// Public returns a copy safe to hand to a browser.
func (p Patient) Public() Patient {
	p.Password = ""
	return p
}

func publicList(list []Patient) []Patient {
	out := make([]Patient, len(list))
	for i, p := range list {
		out[i] = p.Public()
	}
	return out
}

// Registration is the self sign-up form.
type Registration struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Mobile     string `json:"mobileNo"`
	DOB        string `json:"dob"`
	Age        int    `json:"age,omitempty"`
	Gender     string `json:"gender"`
	BloodGroup string `json:"bloodGroup"`
	Address    string `json:"address"`
}

// AgeOn returns the age in whole years of someone born on dob (YYYY-MM-DD)
// as of now.
func AgeOn(dob string, now time.Time) (int, bool) {
	born, err := time.ParseInLocation("2006-01-02", dob, now.Location())
	if err != nil || born.After(now) {
		return 0, false
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age, true
}
