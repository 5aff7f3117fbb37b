package service

// CreateFrameInput данные нового окна. Время в формате HH:MM или HH:MM:SS, дата YYYY-MM-DD.
type CreateFrameInput struct {
	StaffID     int64  `json:"staff_id" validate:"required,gt=0"`
	Date        string `json:"date" validate:"omitempty,date"`
	Title       string `json:"title" validate:"required,max=255"`
	Day         string `json:"day" validate:"omitempty,max=16"`
	StartTime   string `json:"start_time" validate:"required,clock"`
	EndTime     string `json:"end_time" validate:"required,clock"`
	Duration    int    `json:"duration" validate:"required"`
	Interval    int    `json:"interval" validate:"gte=0"`
	IsRecurring bool   `json:"is_recurring"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
	Visibility  string `json:"visibility" validate:"omitempty,oneof=public private"`
}

// UpdateFrameInput частичное обновление, nil поля не меняются
type UpdateFrameInput struct {
	Date        *string `json:"date" validate:"omitempty,date"`
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Day         *string `json:"day" validate:"omitempty,max=16"`
	StartTime   *string `json:"start_time" validate:"omitempty,clock"`
	EndTime     *string `json:"end_time" validate:"omitempty,clock"`
	Duration    *int    `json:"duration"`
	Interval    *int    `json:"interval" validate:"omitempty,gte=0"`
	IsRecurring *bool   `json:"is_recurring"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
	Visibility  *string `json:"visibility" validate:"omitempty,oneof=public private"`
}

type MoveFrameInput struct {
	DeltaMinutes int     `json:"delta_minutes"`
	NewDate      *string `json:"new_date" validate:"omitempty,date"`
}

type CreateSlotInput struct {
	FrameID   int64  `json:"availability_frame_id" validate:"required,gt=0"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
	Status    string `json:"status" validate:"omitempty,oneof=available unavailable"`
}

type UpdateSlotInput struct {
	StartTime *string `json:"start_time" validate:"omitempty,clock"`
	EndTime   *string `json:"end_time" validate:"omitempty,clock"`
	Status    *string `json:"status" validate:"omitempty,oneof=available booked unavailable"`
}

// PublicBookingInput запись посетителя через публичную выдачу. Статус всегда pending.
type PublicBookingInput struct {
	StaffID     int64   `json:"staff_id" validate:"required,gt=0"`
	SlotID      int64   `json:"availability_slot_id" validate:"required,gt=0"`
	VisitorName string  `json:"visitor_name" validate:"required,max=255"`
	StudentName *string `json:"student_name" validate:"omitempty,max=255"`
	PhoneNumber string  `json:"phone_number" validate:"required,max=20"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Purpose     string  `json:"purpose" validate:"required,max=1000"`
}

// BookAppointmentInput запись посетителя на слот
type BookAppointmentInput struct {
	StaffID     int64   `json:"staff_id" validate:"required,gt=0"`
	SlotID      int64   `json:"availability_slot_id" validate:"required,gt=0"`
	VisitorName string  `json:"visitor_name" validate:"required,max=255"`
	StudentName *string `json:"student_name" validate:"omitempty,max=255"`
	PhoneNumber string  `json:"phone_number" validate:"required,max=20"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Purpose     string  `json:"purpose" validate:"required,max=1000"`
	Status      string  `json:"status" validate:"omitempty,oneof=pending approved"`
}

type UpdateAppointmentInput struct {
	VisitorName *string `json:"visitor_name" validate:"omitempty,min=1,max=255"`
	StudentName *string `json:"student_name" validate:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,min=1,max=20"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	Purpose     *string `json:"purpose" validate:"omitempty,max=1000"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending approved cancelled completed"`
}
