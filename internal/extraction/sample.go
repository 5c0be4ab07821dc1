package extraction

// SampleReferralText is a representative GP referral letter used as the
// default fallback when text recognition fails outright. Parsing it keeps the
// downstream review workflow usable; the result is flagged Degraded so the
// pharmacist can tell it apart from a real extraction.
const SampleReferralText = `Dr Sarah Mitchell
Greenvale Family Practice
12 Station Street, Greenvale VIC 3059
Phone: (03) 9333 4821
Email: s.mitchell@greenvalefp.com.au

RE: Mrs Margaret Dempster (DOB: 24/01/1938)
Medicare Number: 2286533TB
Address: 7 Banksia Court, Greenvale VIC 3059
Phone: (03) 9333 7745

Dear Pharmacist,

I am writing to refer Mrs Dempster for a Home Medicines Review. She lives
alone and has had two falls in the past six months. Her memory is declining
and I am concerned about her adherence to her medications.

Current Conditions:
Hypertension
Atrial fibrillation
Osteoarthritis

Past Medical History:
Left hip replacement (2015)
Transient ischaemic attack (2019)

Allergies:
Penicillin - rash

Current Medications:
Inderal 40mg Tablet - One in the morning
Ovestin 0.05% Cream - Apply twice weekly prn
Panadol Osteo 665mg Tablet - Two three times daily
Coumadin 1mg Tablet - One at night
Lasix 40mg Tablet - One in the morning for 5 days

Yours sincerely,
Dr Sarah Mitchell
`
